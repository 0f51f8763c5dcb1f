package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/pkg/enums"
)

// Product represents a farmer's produce listing.
type Product struct {
	ID                int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	FarmerID          int64                 `gorm:"column:farmer_id;not null;index"`
	Name              string                `gorm:"column:name;not null"`
	Category          enums.ProductCategory `gorm:"column:category;not null"`
	Description       *string               `gorm:"column:description"`
	Price             decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Unit              enums.ProductUnit     `gorm:"column:unit;not null"`
	QuantityAvailable float64               `gorm:"column:quantity_available;not null;default:0"`
	ImagePath         *string               `gorm:"column:image_path"`
	IsActive          bool                  `gorm:"column:is_active;not null;default:true"`
	Farmer            *User                 `gorm:"foreignKey:FarmerID"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
