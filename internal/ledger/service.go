package ledger

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/models"
)

// Service is the account façade: it loads a user's ledger, applies one
// aggregate operation and persists the result atomically. The user row
// carries a version column; the save is guarded by it, so two racing
// mutations against the same account cannot both commit against the same
// snapshot — the loser gets ErrConflict and should retry.
type Service struct {
	db              *gorm.DB
	log             zerolog.Logger
	investmentTypes []string
}

func NewService(db *gorm.DB, log zerolog.Logger, investmentTypes []string) *Service {
	return &Service{
		db:              db,
		log:             log.With().Str("component", "ledger").Logger(),
		investmentTypes: investmentTypes,
	}
}

// InvestmentTypes returns the configured allow-list.
func (s *Service) InvestmentTypes() []string {
	return s.investmentTypes
}

func (s *Service) load(tx *gorm.DB, userID uint) (*Ledger, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var expenses []models.Expense
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	var investments []models.Investment
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&investments).Error; err != nil {
		return nil, err
	}

	return New(&user, expenses, investments), nil
}

// View loads a read-only ledger snapshot.
func (s *Service) View(userID uint) (*Ledger, error) {
	return s.load(s.db, userID)
}

// Mutate runs op against the user's ledger and commits all staged changes
// in one transaction, or none of them.
func (s *Service) Mutate(userID uint, op func(*Ledger) error) (*Ledger, error) {
	var led *Ledger
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		led, err = s.load(tx, userID)
		if err != nil {
			return err
		}
		expectedVersion := led.user.Version

		if err := op(led); err != nil {
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", userID, expectedVersion).
			Updates(map[string]interface{}{
				"initial_budget":  led.user.InitialBudget,
				"essentials":      led.user.Essentials,
				"savings":         led.user.Savings,
				"self_investment": led.user.SelfInvestment,
				"charity":         led.user.Charity,
				"emergency":       led.user.Emergency,
				"version":         expectedVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		led.user.Version = expectedVersion + 1

		if led.cleared {
			if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Investment{}).Error; err != nil {
				return err
			}
			return nil
		}

		for _, e := range led.addedExpenses {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		if len(led.deletedExpenses) > 0 {
			if err := tx.Where("user_id = ? AND id IN ?", userID, led.deletedExpenses).
				Delete(&models.Expense{}).Error; err != nil {
				return err
			}
		}
		for _, inv := range led.addedInvestments {
			if err := tx.Create(inv).Error; err != nil {
				return err
			}
		}
		if len(led.deletedInvestments) > 0 {
			if err := tx.Where("user_id = ? AND id IN ?", userID, led.deletedInvestments).
				Delete(&models.Investment{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return led, nil
}

// InjectBudget adds amount to the budget, split across the envelopes.
func (s *Service) InjectBudget(userID uint, amount decimal.Decimal) (*Ledger, error) {
	return s.Mutate(userID, func(l *Ledger) error {
		return l.InjectBudget(amount)
	})
}

// RecordExpense appends an expense drawn from the labeled envelope.
func (s *Service) RecordExpense(userID uint, amount decimal.Decimal, categoryLabel, purpose, location string, date time.Time) (*Ledger, *models.Expense, error) {
	var expense *models.Expense
	led, err := s.Mutate(userID, func(l *Ledger) error {
		var err error
		expense, err = l.RecordExpense(amount, categoryLabel, purpose, location, date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return led, expense, nil
}

// DeleteExpense reverses and removes the expense at index.
func (s *Service) DeleteExpense(userID uint, index int) (*Ledger, error) {
	return s.Mutate(userID, func(l *Ledger) error {
		return l.DeleteExpense(index)
	})
}

// SetAllocations replaces the envelope balances wholesale.
func (s *Service) SetAllocations(userID uint, values map[Category]decimal.Decimal) (*Ledger, error) {
	return s.Mutate(userID, func(l *Ledger) error {
		return l.SetAllocations(values)
	})
}

// RecordInvestment appends an investment; warning is non-empty when the
// position breaches the concentration limit (the write still commits).
func (s *Service) RecordInvestment(userID uint, amount, price decimal.Decimal, invType string) (*Ledger, *models.Investment, string, error) {
	var investment *models.Investment
	var warning string
	led, err := s.Mutate(userID, func(l *Ledger) error {
		var err error
		investment, warning, err = l.RecordInvestment(amount, price, invType, s.investmentTypes)
		return err
	})
	if err != nil {
		return nil, nil, "", err
	}
	return led, investment, warning, nil
}

// DeleteInvestment reverses and removes the investment at index.
func (s *Service) DeleteInvestment(userID uint, index int) (*Ledger, error) {
	return s.Mutate(userID, func(l *Ledger) error {
		return l.DeleteInvestment(index)
	})
}

// ResetBudget zeroes the budget and envelopes and clears both ledgers.
func (s *Service) ResetBudget(userID uint) (*Ledger, error) {
	return s.Mutate(userID, func(l *Ledger) error {
		l.Reset()
		return nil
	})
}

// DeleteAccount removes the user and every child record. Deleting an
// already-absent account succeeds; no partial state is ever left behind.
func (s *Service) DeleteAccount(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Investment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return err
		}
		s.log.Info().Uint("user_id", userID).Msg("account deleted")
		return nil
	})
}
