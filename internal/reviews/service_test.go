package reviews

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	pkgerrors "github.com/priyansupat/farmdirect-backend/pkg/errors"
)

var _ Repository = (*stubReviewRepo)(nil)

func TestAddRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()

	svc := newTestReviewService(&stubReviewRepo{}, stubReviewProducts{})

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Add(context.Background(), 1, 10, rating, nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: unexpected error: %v", rating, err)
		}
	}
}

func TestAddRejectsMissingProduct(t *testing.T) {
	t.Parallel()

	svc := newTestReviewService(&stubReviewRepo{}, stubReviewProducts{err: gorm.ErrRecordNotFound})

	_, err := svc.Add(context.Background(), 1, 10, 4, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddMapsDuplicateReviewToConflict(t *testing.T) {
	t.Parallel()

	repo := &stubReviewRepo{
		createErr: errors.New(`duplicate key value violates unique constraint "idx_reviews_product_consumer"`),
	}
	svc := newTestReviewService(repo, stubReviewProducts{})

	_, err := svc.Add(context.Background(), 1, 10, 4, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRatingRoundsToOneDecimal(t *testing.T) {
	t.Parallel()

	svc := newTestReviewService(&stubReviewRepo{avg: 4.2499, count: 3}, stubReviewProducts{})

	rating, err := svc.Rating(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.Average != 4.2 {
		t.Fatalf("expected 4.2, got %v", rating.Average)
	}
	if rating.Count != 3 {
		t.Fatalf("expected count 3, got %d", rating.Count)
	}
}

func newTestReviewService(repo Repository, products productLoader) Service {
	svc, err := NewService(repo, products)
	if err != nil {
		panic(err)
	}
	return svc
}

type stubReviewProducts struct {
	err error
}

func (s stubReviewProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Product{ID: id, IsActive: true}, nil
}

type stubReviewRepo struct {
	avg       float64
	count     int64
	createErr error
}

func (s *stubReviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return review, nil
}
func (s *stubReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	return nil, nil
}
func (s *stubReviewRepo) RatingByProduct(ctx context.Context, productID int64) (float64, int64, error) {
	return s.avg, s.count, nil
}
