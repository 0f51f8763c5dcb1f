package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/internal/cart"
	"github.com/priyansupat/farmdirect-backend/internal/catalog"
	"github.com/priyansupat/farmdirect-backend/internal/orders"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
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
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  consumer_id INTEGER NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  delivery_address TEXT NOT NULL,
  phone TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  farmer_id INTEGER NOT NULL,
  quantity REAL NOT NULL,
  price_per_unit NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL
);`}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestCheckout(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(gormTxRunner{db: db}, orders.NewRepository(db), catalog.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedStock(t *testing.T, db *gorm.DB, farmerID int64, name, price string, qty float64) *models.Product {
	t.Helper()

	product := &models.Product{
		FarmerID:          farmerID,
		Name:              name,
		Category:          enums.ProductCategoryVegetables,
		Price:             decimal.RequireFromString(price),
		Unit:              enums.ProductUnitKg,
		QuantityAvailable: qty,
		IsActive:          true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func snapshotLine(product *models.Product, qty float64) cart.Line {
	return cart.Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		FarmerID:    product.FarmerID,
		Unit:        product.Unit,
		Price:       product.Price,
		Available:   product.QuantityAvailable,
		Quantity:    qty,
		Subtotal:    product.Price.Mul(decimal.NewFromFloat(qty)),
	}
}

func TestExecuteCommitsOrderAndDecrementsStock(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestCheckout(t, db)
	ctx := context.Background()

	tomatoes := seedStock(t, db, 5, "Tomatoes", "40.00", 10)
	onions := seedStock(t, db, 6, "Onions", "25.00", 8)

	snapshot := []cart.Line{snapshotLine(tomatoes, 2), snapshotLine(onions, 3)}

	orderID, err := svc.Execute(ctx, 1, snapshot, "12 Farm Road", "9999999999")
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	// 2*40 + 3*25 = 155
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("155")),
		"unexpected total %s", order.TotalAmount)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&items).Error)
	require.Len(t, items, 2)

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, order.TotalAmount.Equal(sum), "total %s != item sum %s", order.TotalAmount, sum)

	var stock models.Product
	require.NoError(t, db.First(&stock, tomatoes.ID).Error)
	assert.Equal(t, 8.0, stock.QuantityAvailable)
	stock = models.Product{}
	require.NoError(t, db.First(&stock, onions.ID).Error)
	assert.Equal(t, 5.0, stock.QuantityAvailable)
}

func TestExecuteFreezesSnapshotPrice(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestCheckout(t, db)
	ctx := context.Background()

	tomatoes := seedStock(t, db, 5, "Tomatoes", "40.00", 10)
	snapshot := []cart.Line{snapshotLine(tomatoes, 2)}

	// Reprice after the snapshot was taken.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", tomatoes.ID).
		Update("price", "99.00").Error)

	orderID, err := svc.Execute(ctx, 1, snapshot, "12 Farm Road", "9999999999")
	require.NoError(t, err)

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, items[0].PricePerUnit.Equal(decimal.RequireFromString("40.00")))
}

func TestExecuteInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestCheckout(t, db)
	ctx := context.Background()

	tomatoes := seedStock(t, db, 5, "Tomatoes", "40.00", 10)
	onions := seedStock(t, db, 6, "Onions", "25.00", 2)

	// The second line asks for more than is available, which must undo the
	// first line's decrement as well.
	snapshot := []cart.Line{snapshotLine(tomatoes, 4), snapshotLine(onions, 5)}

	_, err := svc.Execute(ctx, 1, snapshot, "12 Farm Road", "9999999999")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, onions.ID, details["product_id"])
	assert.Equal(t, "Onions", details["product_name"])

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var stock models.Product
	require.NoError(t, db.First(&stock, tomatoes.ID).Error)
	assert.Equal(t, 10.0, stock.QuantityAvailable)
}

func TestExecuteStaleSnapshotsCannotOversell(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestCheckout(t, db)
	ctx := context.Background()

	tomatoes := seedStock(t, db, 5, "Tomatoes", "40.00", 10)

	// Two consumers snapshot the same 10 units and each try to buy 6.
	first := []cart.Line{snapshotLine(tomatoes, 6)}
	second := []cart.Line{snapshotLine(tomatoes, 6)}

	_, err := svc.Execute(ctx, 1, first, "12 Farm Road", "9999999999")
	require.NoError(t, err)

	_, err = svc.Execute(ctx, 2, second, "34 Hill Road", "8888888888")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	var stock models.Product
	require.NoError(t, db.First(&stock, tomatoes.ID).Error)
	assert.Equal(t, 4.0, stock.QuantityAvailable)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestExecuteValidatesInput(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestCheckout(t, db)
	ctx := context.Background()

	_, err := svc.Execute(ctx, 1, nil, "12 Farm Road", "9999999999")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	tomatoes := seedStock(t, db, 5, "Tomatoes", "40.00", 10)
	_, err = svc.Execute(ctx, 1, []cart.Line{snapshotLine(tomatoes, 2)}, " ", "9999999999")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
