package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is money moved out of the self-investment envelope into an
// asset. Price is the unit price at time of purchase.
type Investment struct {
	ID     uint            `gorm:"primaryKey"`
	UserID uint            `gorm:"index;not null"`
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	Price  decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	Type   string          `gorm:"size:32;not null"`
	Date   time.Time       `gorm:"index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
