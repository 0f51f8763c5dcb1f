package models

import (
	"time"

	"github.com/priyansupat/farmdirect-backend/pkg/enums"
)

// User is a marketplace account, either a farmer or a consumer.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string         `gorm:"column:username;uniqueIndex;not null"`
	Email        string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
