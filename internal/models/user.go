package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents application user together with their budget envelopes.
// Version guards every read-modify-write against lost updates: saves go
// through "UPDATE ... WHERE version = ?" and bump it by one.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	DisplayName  string `gorm:"size:64"`

	InitialBudget  decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	Essentials     decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	Savings        decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	SelfInvestment decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	Charity        decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	Emergency      decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`

	Version uint `gorm:"not null;default:0"`

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
