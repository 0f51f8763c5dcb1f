package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db"
	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

type productLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// Rating summarizes a product's reviews.
type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Service exposes review operations.
type Service interface {
	Add(ctx context.Context, consumerID, productID int64, rating int, comment *string) (*models.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	Rating(ctx context.Context, productID int64) (*Rating, error)
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a reviews service backed by the provided stack.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Add(ctx context.Context, consumerID, productID int64, rating int, comment *string) (*models.Review, error) {
	if consumerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consumer id is required")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	review := &models.Review{
		ProductID:  productID,
		ConsumerID: consumerID,
		Rating:     rating,
		Comment:    comment,
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return created, nil
}

func (s *service) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	records, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return records, nil
}

// Rating returns the product's average rating rounded to one decimal.
func (s *service) Rating(ctx context.Context, productID int64) (*Rating, error) {
	avg, count, err := s.repo.RatingByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}
	return &Rating{
		Average: math.Round(avg*10) / 10,
		Count:   count,
	}, nil
}
