package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
)

// Repository exposes review persistence.
type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	RatingByProduct(ctx context.Context, productID int64) (avg float64, count int64, err error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	var records []models.Review
	err := r.db.WithContext(ctx).
		Preload("Consumer").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) RatingByProduct(ctx context.Context, productID int64) (float64, int64, error) {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Avg, agg.Count, nil
}
