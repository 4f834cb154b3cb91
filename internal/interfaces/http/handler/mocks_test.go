package handler

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	tradeapp "github.com/pos/backend/internal/application/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalogapp.ProductResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Quote(ctx context.Context, id uuid.UUID, manualDiscount *decimal.Decimal) (*catalogapp.QuoteResponse, error) {
	args := m.Called(ctx, id, manualDiscount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.QuoteResponse), args.Error(1)
}

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) Create(ctx context.Context, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SaleResponse), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.SaleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SaleResponse), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, filter tradeapp.SaleListFilter) ([]tradeapp.SaleListItemResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]tradeapp.SaleListItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleService) Summary(ctx context.Context, filter tradeapp.SalesSummaryFilter) (*tradeapp.SalesSummaryResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.SalesSummaryResponse), args.Error(1)
}

type MockReturnService struct {
	mock.Mock
}

func (m *MockReturnService) Preview(ctx context.Context, saleID uuid.UUID, req tradeapp.ReturnRequest) (*tradeapp.ReturnPreviewResponse, error) {
	args := m.Called(ctx, saleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.ReturnPreviewResponse), args.Error(1)
}

func (m *MockReturnService) Commit(ctx context.Context, saleID uuid.UUID, req tradeapp.ReturnRequest) (*tradeapp.ReturnCommitResponse, error) {
	args := m.Called(ctx, saleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.ReturnCommitResponse), args.Error(1)
}

func (m *MockReturnService) ListReturns(ctx context.Context, saleID uuid.UUID) ([]tradeapp.SaleReturnResponse, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.SaleReturnResponse), args.Error(1)
}
