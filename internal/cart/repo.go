package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
)

// Repository exposes cart line persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	MergeLine(ctx context.Context, line *models.CartItem) error
	SetLineQuantity(ctx context.Context, consumerID, productID int64, qty float64) (int64, error)
	DeleteLine(ctx context.Context, consumerID, productID int64) error
	DeleteByConsumer(ctx context.Context, consumerID int64) error
	ListByConsumer(ctx context.Context, consumerID int64) ([]models.CartItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// MergeLine inserts the line or adds its quantity onto the existing one for
// the same (consumer, product) pair.
func (r *repository) MergeLine(ctx context.Context, line *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "consumer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).
		Create(line).Error
}

func (r *repository) SetLineQuantity(ctx context.Context, consumerID, productID int64, qty float64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("consumer_id = ? AND product_id = ?", consumerID, productID).
		Update("quantity", qty)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteLine(ctx context.Context, consumerID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("consumer_id = ? AND product_id = ?", consumerID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) DeleteByConsumer(ctx context.Context, consumerID int64) error {
	return r.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) ListByConsumer(ctx context.Context, consumerID int64) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Farmer").
		Where("consumer_id = ?", consumerID).
		Order("added_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
