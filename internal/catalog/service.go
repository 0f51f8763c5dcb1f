package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

// CreateInput captures a new listing from a farmer.
type CreateInput struct {
	Name        string
	Category    enums.ProductCategory
	Description *string
	Price       decimal.Decimal
	Unit        enums.ProductUnit
	Quantity    float64
	ImagePath   *string
}

// UpdateInput carries optional listing changes. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Category    *enums.ProductCategory
	Description *string
	Price       *decimal.Decimal
	Unit        *enums.ProductUnit
	Quantity    *float64
	ImagePath   *string
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, farmerID int64, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, farmerID, productID int64, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, farmerID, productID int64) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ListActive(ctx context.Context, filter ListFilter) ([]models.Product, string, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, farmerID int64, input CreateInput) (*models.Product, error) {
	if farmerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product := &models.Product{
		FarmerID:          farmerID,
		Name:              strings.TrimSpace(input.Name),
		Category:          input.Category,
		Description:       input.Description,
		Price:             input.Price,
		Unit:              input.Unit,
		QuantityAvailable: input.Quantity,
		ImagePath:         input.ImagePath,
		IsActive:          true,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, farmerID, productID int64, input UpdateInput) (*models.Product, error) {
	product, err := s.loadOwned(ctx, farmerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
		}
		product.Category = *input.Category
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
		}
		product.Unit = *input.Unit
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		product.QuantityAvailable = *input.Quantity
	}
	if input.ImagePath != nil {
		product.ImagePath = input.ImagePath
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, farmerID, productID int64) error {
	affected, err := s.repo.Deactivate(ctx, productID, farmerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, string, error) {
	products, next, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, next, nil
}

func (s *service) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Product, error) {
	products, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer products")
	}
	return products, nil
}

func (s *service) loadOwned(ctx context.Context, farmerID, productID int64) (*models.Product, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.FarmerID != farmerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another farmer")
	}
	return product, nil
}
