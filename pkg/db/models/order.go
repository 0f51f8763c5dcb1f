package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/priyansupat/farmdirect-backend/pkg/enums"
)

// Order is a committed purchase. Status moves through the lifecycle
// pending -> confirmed -> shipped -> delivered, with cancellation allowed
// before shipping.
type Order struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement"`
	ConsumerID      int64             `gorm:"column:consumer_id;not null;index"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	DeliveryAddress string            `gorm:"column:delivery_address;not null"`
	Phone           string            `gorm:"column:phone;not null"`
	Consumer        *User             `gorm:"foreignKey:ConsumerID"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
