package models

import "github.com/shopspring/decimal"

// OrderItem freezes one cart line at checkout time. PricePerUnit and Subtotal
// never change after commit, even if the product is repriced later.
type OrderItem struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      int64           `gorm:"column:order_id;not null;index"`
	ProductID    int64           `gorm:"column:product_id;not null;index"`
	FarmerID     int64           `gorm:"column:farmer_id;not null;index"`
	Quantity     float64         `gorm:"column:quantity;not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Product      *Product        `gorm:"foreignKey:ProductID"`
}
