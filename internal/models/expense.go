package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one spend drawn from a single budget envelope.
// Category stores the envelope key, not the display label.
type Expense struct {
	ID       uint            `gorm:"primaryKey"`
	UserID   uint            `gorm:"index;not null"`
	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	Category string          `gorm:"size:32;not null"`
	Purpose  string          `gorm:"size:255;not null"`
	Location string          `gorm:"size:255;not null"`
	Date     time.Time       `gorm:"index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
