package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
)

// Repository exposes order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error
	ListByConsumer(ctx context.Context, consumerID int64) ([]models.Order, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]models.Order, error)
	ItemsByOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	CountFarmerItems(ctx context.Context, orderID, farmerID int64) (int64, error)
	FarmerStats(ctx context.Context, farmerID int64) (*FarmerStats, error)
}

// FarmerStats aggregates a farmer's marketplace activity.
type FarmerStats struct {
	ActiveProducts int64  `json:"active_products"`
	OrderCount     int64  `json:"order_count"`
	Revenue        string `json:"revenue"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Consumer").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ListByConsumer(ctx context.Context, consumerID int64) ([]models.Order, error) {
	var records []models.Order
	err := r.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByFarmer returns the distinct orders containing at least one of the
// farmer's items.
func (r *repository) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Order, error) {
	var records []models.Order
	err := r.db.WithContext(ctx).
		Preload("Consumer").
		Where("id IN (?)", r.db.
			Model(&models.OrderItem{}).
			Select("order_id").
			Where("farmer_id = ?", farmerID)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ItemsByOrder(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Farmer").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountFarmerItems(ctx context.Context, orderID, farmerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ? AND farmer_id = ?", orderID, farmerID).
		Count(&count).Error
	return count, err
}

func (r *repository) FarmerStats(ctx context.Context, farmerID int64) (*FarmerStats, error) {
	stats := &FarmerStats{}

	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("farmer_id = ? AND is_active = ?", farmerID, true).
		Count(&stats.ActiveProducts).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("farmer_id = ?", farmerID).
		Distinct("order_id").
		Count(&stats.OrderCount).Error
	if err != nil {
		return nil, err
	}

	var revenue struct {
		Total string
	}
	err = r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("farmer_id = ?", farmerID).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.Revenue = revenue.Total

	return stats, nil
}
