package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupReturnRouter(svc *MockReturnService) *gin.Engine {
	r := gin.New()
	h := NewReturnHandler(svc)
	r.POST("/sales/:id/returns/preview", h.Preview)
	r.POST("/sales/:id/returns", h.Commit)
	r.GET("/sales/:id/returns", h.List)
	return r
}

func TestReturnHandler_Preview(t *testing.T) {
	saleID := uuid.New()
	itemID := uuid.New()
	body := `{"items":[{"saleItemId":"` + itemID.String() + `","quantity":5}]}`

	t.Run("problems are advisory", func(t *testing.T) {
		svc := new(MockReturnService)
		available := 2
		svc.On("Preview", mock.Anything, saleID, mock.MatchedBy(func(req tradeapp.ReturnRequest) bool {
			return len(req.Items) == 1 && req.Items[0].SaleItemID == itemID && req.Items[0].Quantity.Int() == 5
		})).Return(&tradeapp.ReturnPreviewResponse{
			Valid:       false,
			SaleVersion: 2,
			TotalRefund: decimal.Zero,
			Errors: trade.ReturnErrors{
				{SaleItemID: &itemID, Field: "items", Code: trade.CodeQuantityExceedsAvailable, Available: &available},
			},
		}, nil)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns/preview", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":false`)
		assert.Contains(t, w.Body.String(), `"available":2`)
		svc.AssertExpectations(t)
	})

	t.Run("unknown sale", func(t *testing.T) {
		svc := new(MockReturnService)
		svc.On("Preview", mock.Anything, saleID, mock.Anything).Return(nil, shared.ErrNotFound)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns/preview", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReturnHandler_Commit(t *testing.T) {
	saleID := uuid.New()
	itemID := uuid.New()
	body := `{"items":[{"saleItemId":"` + itemID.String() + `","quantity":"1"}],"reason":"damaged","expectedVersion":2}`

	t.Run("committed", func(t *testing.T) {
		svc := new(MockReturnService)
		svc.On("Commit", mock.Anything, saleID, mock.MatchedBy(func(req tradeapp.ReturnRequest) bool {
			return req.Reason == "damaged" && req.ExpectedVersion != nil && *req.ExpectedVersion == 2
		})).Return(&tradeapp.ReturnCommitResponse{
			Return: tradeapp.SaleReturnResponse{
				ID:           uuid.New(),
				SaleID:       saleID,
				ReturnNumber: "R-20260314-0A1B2C3D",
				TotalRefund:  decimal.NewFromFloat(8.5),
			},
			Sale: tradeapp.SaleResponse{ID: saleID, Version: 3},
		}, nil)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"totalRefund":"8.5"`)
		svc.AssertExpectations(t)
	})

	t.Run("quantity over what is left", func(t *testing.T) {
		svc := new(MockReturnService)
		available := 0
		svc.On("Commit", mock.Anything, saleID, mock.Anything).Return(nil, trade.ReturnErrors{
			{SaleItemID: &itemID, Field: "items", Code: trade.CodeQuantityExceedsAvailable, Available: &available},
		})

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeReturnRejected, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, itemID.String(), resp.Error.Details[0].SaleItemID)
	})

	t.Run("item no longer on the sale", func(t *testing.T) {
		svc := new(MockReturnService)
		svc.On("Commit", mock.Anything, saleID, mock.Anything).Return(nil, trade.ReturnErrors{
			{SaleItemID: &itemID, Field: "items", Code: trade.CodeUnknownItem},
		})

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeStaleReturn, decodeResponse(t, w).Error.Code)
	})

	t.Run("sale changed since preview", func(t *testing.T) {
		svc := new(MockReturnService)
		svc.On("Commit", mock.Anything, saleID, mock.Anything).Return(nil, shared.ErrConcurrencyConflict)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeConcurrentModification, decodeResponse(t, w).Error.Code)
	})

	t.Run("quantity above the line limit", func(t *testing.T) {
		svc := new(MockReturnService)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns",
			`{"items":[{"saleItemId":"`+uuid.NewString()+`","quantity":"4611686018427387904"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing sale item id", func(t *testing.T) {
		svc := new(MockReturnService)

		w := doJSON(setupReturnRouter(svc), "POST", "/sales/"+saleID.String()+"/returns", `{"items":[{"quantity":1}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReturnHandler_List(t *testing.T) {
	svc := new(MockReturnService)
	saleID := uuid.New()
	svc.On("ListReturns", mock.Anything, saleID).Return([]tradeapp.SaleReturnResponse{
		{ID: uuid.New(), SaleID: saleID, ReturnNumber: "R-1", TotalRefund: decimal.NewFromInt(5)},
	}, nil)

	w := doJSON(setupReturnRouter(svc), "GET", "/sales/"+saleID.String()+"/returns", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"returnNumber":"R-1"`)
}
