package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	"github.com/priyansupat/farmdirect-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  farmer_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  unit TEXT NOT NULL,
  quantity_available REAL NOT NULL DEFAULT 0,
  image_path TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, farmerID int64, name string, qty float64, active bool, createdAt time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		FarmerID:          farmerID,
		Name:              name,
		Category:          enums.ProductCategoryVegetables,
		Price:             decimal.RequireFromString("40.00"),
		Unit:              enums.ProductUnitKg,
		QuantityAvailable: qty,
		IsActive:          active,
		CreatedAt:         createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	if !active {
		// gorm fills zero-value fields tagged with a default before insert,
		// so is_active=false must be written with an explicit column update.
		require.NoError(t, db.Model(product).Update("is_active", false).Error)
		product.IsActive = false
	}
	return product
}

func TestDecrementStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	product := seedProduct(t, db, 5, "Tomatoes", 10, true, now)

	affected, err := repo.DecrementStock(ctx, product.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Only 4 left; a second request for 6 must not match any row.
	affected, err = repo.DecrementStock(ctx, product.ID, 6)
	require.NoError(t, err)
	assert.Zero(t, affected)

	var remaining models.Product
	require.NoError(t, db.First(&remaining, product.ID).Error)
	assert.Equal(t, 4.0, remaining.QuantityAvailable)
}

func TestDecrementStockIgnoresInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5, "Tomatoes", 10, false, time.Now())

	affected, err := repo.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeactivateChecksOwner(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5, "Tomatoes", 10, true, time.Now())

	affected, err := repo.Deactivate(ctx, product.ID, 99)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.Deactivate(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestListActiveFiltersAndPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seedProduct(t, db, 5, "Tomatoes", 10, true, base.Add(1*time.Minute))
	seedProduct(t, db, 5, "Potatoes", 10, true, base.Add(2*time.Minute))
	seedProduct(t, db, 5, "Onions", 10, true, base.Add(3*time.Minute))
	seedProduct(t, db, 5, "Sold Out", 0, true, base.Add(4*time.Minute))
	seedProduct(t, db, 5, "Retired", 10, false, base.Add(5*time.Minute))

	page1, next, err := repo.ListActive(ctx, ListFilter{Page: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, next)
	assert.Equal(t, "Onions", page1[0].Name)
	assert.Equal(t, "Potatoes", page1[1].Name)

	page2, next, err := repo.ListActive(ctx, ListFilter{Page: pagination.Params{Limit: 2, Cursor: next}})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Empty(t, next)
	assert.Equal(t, "Tomatoes", page2[0].Name)
}

func TestListActiveSearchMatchesName(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, 5, "Cherry Tomatoes", 10, true, time.Now())
	seedProduct(t, db, 5, "Potatoes", 10, true, time.Now())

	results, _, err := repo.ListActive(ctx, ListFilter{Query: "tomato"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Cherry Tomatoes", results[0].Name)
}
