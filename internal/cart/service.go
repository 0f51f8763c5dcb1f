package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type productLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// Line is one cart entry joined with live product data. Checkout consumes a
// slice of these as its frozen snapshot.
type Line struct {
	ProductID   int64
	ProductName string
	FarmerID    int64
	FarmerName  string
	Unit        enums.ProductUnit
	Price       decimal.Decimal
	Available   float64
	Quantity    float64
	Subtotal    decimal.Decimal
}

// Service exposes cart operations for a consumer.
type Service interface {
	Add(ctx context.Context, consumerID, productID int64, delta float64) error
	SetQuantity(ctx context.Context, consumerID, productID int64, qty float64) error
	Snapshot(ctx context.Context, consumerID int64) ([]Line, error)
	Clear(ctx context.Context, consumerID int64) error
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// Add merges delta onto the consumer's existing line for the product, creating
// the line when absent. Availability is not checked here; checkout re-verifies
// stock inside its transaction.
func (s *service) Add(ctx context.Context, consumerID, productID int64, delta float64) error {
	if consumerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}
	if delta <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	line := &models.CartItem{
		ConsumerID: consumerID,
		ProductID:  productID,
		Quantity:   delta,
	}
	if err := s.repo.MergeLine(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}
	return nil
}

// SetQuantity replaces the line quantity. Zero or negative removes the line.
func (s *service) SetQuantity(ctx context.Context, consumerID, productID int64, qty float64) error {
	if consumerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}

	if qty <= 0 {
		if err := s.repo.DeleteLine(ctx, consumerID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return nil
	}

	affected, err := s.repo.SetLineQuantity(ctx, consumerID, productID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

// Snapshot returns the cart joined with live product data. The result is a
// plain value; nothing is locked once it returns.
func (s *service) Snapshot(ctx context.Context, consumerID int64) ([]Line, error) {
	if consumerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}

	records, err := s.repo.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	lines := make([]Line, 0, len(records))
	for _, record := range records {
		if record.Product == nil || !record.Product.IsActive {
			continue
		}
		qty := decimal.NewFromFloat(record.Quantity)
		line := Line{
			ProductID:   record.ProductID,
			ProductName: record.Product.Name,
			FarmerID:    record.Product.FarmerID,
			Unit:        record.Product.Unit,
			Price:       record.Product.Price,
			Available:   record.Product.QuantityAvailable,
			Quantity:    record.Quantity,
			Subtotal:    record.Product.Price.Mul(qty),
		}
		if record.Product.Farmer != nil {
			line.FarmerName = record.Product.Farmer.FullName
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Clear removes every line for the consumer.
func (s *service) Clear(ctx context.Context, consumerID int64) error {
	if consumerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}
	if err := s.repo.DeleteByConsumer(ctx, consumerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
