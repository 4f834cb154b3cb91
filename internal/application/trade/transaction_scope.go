package trade

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a sale
// or return touches. Everything done through the repositories handed to fn
// commits or rolls back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() trade.SaleRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	saleRepo    trade.SaleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, saleRepo trade.SaleRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, saleRepo: saleRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
