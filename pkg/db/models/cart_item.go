package models

import "time"

// CartItem is one pending line in a consumer's cart. A consumer holds at most
// one line per product; adds merge into the existing line.
type CartItem struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ConsumerID int64     `gorm:"column:consumer_id;not null;uniqueIndex:idx_cart_consumer_product"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_consumer_product"`
	Quantity   float64   `gorm:"column:quantity;not null"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	AddedAt    time.Time `gorm:"column:added_at;autoCreateTime"`
}
