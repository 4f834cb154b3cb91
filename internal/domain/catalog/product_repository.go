package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row until the
	// surrounding transaction ends. Outside a transaction it behaves like FindByID.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode reports whether a product with the code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save inserts a new product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product if its stored version equals
	// product.Version and increments the version on success. Returns
	// ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock subtracts qty from stock in one conditional update.
	// Returns ErrInsufficientStock if stock would go negative.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// IncrementStock adds qty back to stock
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
}
