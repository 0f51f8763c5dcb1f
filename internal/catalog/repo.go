package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/priyansupat/farmdirect-backend/pkg/db/models"
	"github.com/priyansupat/farmdirect-backend/pkg/enums"
	"github.com/priyansupat/farmdirect-backend/pkg/pagination"
)

// ListFilter narrows public catalog listings.
type ListFilter struct {
	Query    string
	Category *enums.ProductCategory
	Page     pagination.Params
}

// Repository exposes product persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Deactivate(ctx context.Context, id, farmerID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ListActive(ctx context.Context, filter ListFilter) ([]models.Product, string, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]models.Product, error)
	DecrementStock(ctx context.Context, productID int64, qty float64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate soft-deletes the listing. Rows are never physically removed so
// committed order items keep a valid product reference.
func (r *repository) Deactivate(ctx context.Context, id, farmerID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Farmer").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns one keyset page of public listings plus the cursor for
// the next one. An empty cursor means the last page was reached.
func (r *repository) ListActive(ctx context.Context, filter ListFilter) ([]models.Product, string, error) {
	query := r.db.WithContext(ctx).
		Preload("Farmer").
		Where("is_active = ? AND quantity_available > 0", true)

	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(filter.Page.Limit)

	var products []models.Product
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(filter.Page.Limit)).
		Find(&products).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return products, next, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND is_active = ?", farmerID, true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock subtracts qty only when enough stock remains. Zero rows
// affected means the check failed and the caller must abort.
func (r *repository) DecrementStock(ctx context.Context, productID int64, qty float64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND quantity_available >= ?", productID, true, qty).
		Update("quantity_available", gorm.Expr("quantity_available - ?", qty))
	return res.RowsAffected, res.Error
}
