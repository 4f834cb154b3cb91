package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product, deriving the discount field the user did not edit
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Product with code %s already exists", req.Code)
	}

	product, err := catalog.NewProduct(req.Code, req.Name, catalog.PricingChange{
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		HasDiscount:     req.HasDiscount,
		DiscountPrice:   req.DiscountPrice,
		DiscountPercent: req.DiscountPercent,
		Source:          catalog.DiscountSource(req.DiscountSource),
	}, req.Stock.Int())
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.String("code", product.Code), zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, product)
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products and the total count
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}

	products, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update applies a partial update. When Version is set it must match the
// stored version.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != product.Version {
		return nil, shared.ErrConcurrencyConflict.WithMessage(
			"Product was modified (version %d, expected %d); reload and retry", product.Version, req.Version)
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.touchesPricing() {
		if err := product.ChangePricing(mergePricing(product.Pricing, req)); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(req.Stock.Int()); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// Quote prices one unit of a product for the point of sale with an optional
// manual discount
func (s *ProductService) Quote(ctx context.Context, id uuid.UUID, manualDiscount *decimal.Decimal) (*QuoteResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	maxDiscount, err := catalog.MaxManualDiscount(product.Pricing)
	if err != nil {
		return nil, err
	}
	unitPrice, err := catalog.PriceSaleLine(product.Pricing, manualDiscount)
	if err != nil {
		return nil, err
	}

	applied := decimal.Zero
	if manualDiscount != nil && manualDiscount.IsPositive() {
		applied = *manualDiscount
	}

	return &QuoteResponse{
		ProductID:            product.ID,
		SalePrice:            product.SalePrice,
		DiscountPrice:        product.DiscountPrice,
		ManualDiscountAmount: applied,
		MaxManualDiscount:    maxDiscount,
		UnitPrice:            unitPrice,
		Stock:                product.Stock,
	}, nil
}

// mergePricing overlays the supplied fields of an update on the stored
// pricing and picks which discount field is authoritative: the one supplied
// (last edited), otherwise the stored percent when prices moved.
func mergePricing(current catalog.Pricing, req UpdateProductRequest) catalog.PricingChange {
	change := catalog.PricingChange{
		PurchasePrice:   current.PurchasePrice,
		SalePrice:       current.SalePrice,
		HasDiscount:     current.HasDiscount,
		DiscountPrice:   current.DiscountPrice,
		DiscountPercent: current.DiscountPercent,
		Source:          catalog.DiscountSource(req.DiscountSource),
	}
	if req.PurchasePrice != nil {
		change.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		change.SalePrice = *req.SalePrice
	}
	if req.HasDiscount != nil {
		change.HasDiscount = *req.HasDiscount
	}

	switch {
	case req.DiscountPrice != nil && (req.DiscountPercent == nil || change.Source != catalog.DiscountSourcePercent):
		change.DiscountPrice = req.DiscountPrice
		change.Source = catalog.DiscountSourcePrice
	case req.DiscountPercent != nil:
		change.DiscountPercent = req.DiscountPercent
		change.Source = catalog.DiscountSourcePercent
	case current.DiscountPercent != nil && (current.DiscountPrice == nil || req.PurchasePrice != nil || req.SalePrice != nil):
		// prices moved under a stored discount: keep the percent of margin
		change.Source = catalog.DiscountSourcePercent
	default:
		change.Source = catalog.DiscountSourcePrice
	}
	return change
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
