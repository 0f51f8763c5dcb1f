package models

import "time"

// Review is a consumer rating on a product.
type Review struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:idx_reviews_product_consumer"`
	ConsumerID int64     `gorm:"column:consumer_id;not null;uniqueIndex:idx_reviews_product_consumer"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment"`
	Consumer   *User     `gorm:"foreignKey:ConsumerID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
