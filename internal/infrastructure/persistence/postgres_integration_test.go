//go:build integration

package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/pos/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDatabase starts a throwaway postgres container and applies
// the embedded migrations
func newPostgresDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return &Database{DB: db}
}

func TestPostgres_ConcurrentReturnsNeverOverReturn(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDatabase(t)

	products := NewGormProductRepository(db.DB)
	sales := NewGormSaleRepository(db.DB)
	scope := NewGormTransactionScope(db.DB)

	tea := newTestProduct(t, "TEA", "8.50", 10)
	require.NoError(t, products.Save(ctx, tea))

	saleService := apptrade.NewSaleService(sales, scope, nil)
	returnService := apptrade.NewReturnService(sales, scope, nil)

	sale, err := saleService.Create(ctx, apptrade.CreateSaleRequest{Items: []apptrade.SaleLineInput{
		{ProductID: tea.ID, Quantity: 5},
	}})
	require.NoError(t, err)
	line := sale.Items[0].ID

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := returnService.Commit(ctx, sale.ID, apptrade.ReturnRequest{
				Items: []apptrade.ReturnItemInput{{SaleItemID: line, Quantity: 2}},
			})
			mu.Lock()
			defer mu.Unlock()
			var rerrs trade.ReturnErrors
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &rerrs), errors.Is(err, shared.ErrConcurrencyConflict):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded, "only two returns of 2 fit into 5 sold")
	assert.Equal(t, workers-2, rejected)

	reloaded, err := sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Items[0].ReturnedQuantity())
	assert.True(t, reloaded.RefundedAmount.Equal(dec("34")))
	assert.Equal(t, 3, reloaded.Version)

	stocked, err := products.FindByID(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stocked.Stock)
}

func TestPostgres_ConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDatabase(t)

	products := NewGormProductRepository(db.DB)
	sales := NewGormSaleRepository(db.DB)
	saleService := apptrade.NewSaleService(sales, NewGormTransactionScope(db.DB), nil)

	cup := newTestProduct(t, "CUP", "2", 5)
	require.NoError(t, products.Save(ctx, cup))

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := saleService.Create(ctx, apptrade.CreateSaleRequest{Items: []apptrade.SaleLineInput{
				{ProductID: cup.ID, Quantity: 1},
			}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	}
	assert.Equal(t, 5, ok)

	stocked, err := products.FindByID(ctx, cup.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stocked.Stock)
}
