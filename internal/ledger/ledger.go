package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/models"
)

// concentrationLimit is the share of the total portfolio above which a
// single investment triggers a non-blocking warning.
var concentrationLimit = decimal.New(10, -2)

// Ledger is the in-memory aggregate of one user's budget, envelopes,
// expense list and investment list. All mutations go through its methods
// so the invariants hold:
//
//   - every envelope balance stays >= 0
//   - money is conserved across inject/spend/invest/delete
//   - deleting entry i reverses exactly what its insertion did
//
// Mutations are staged; the service persists them atomically.
type Ledger struct {
	user        *models.User
	expenses    []models.Expense
	investments []models.Investment

	addedExpenses      []*models.Expense
	deletedExpenses    []uint
	addedInvestments   []*models.Investment
	deletedInvestments []uint
	cleared            bool
}

// New builds a Ledger over a loaded user and their child records.
// Child slices must be in insertion (id ascending) order.
func New(user *models.User, expenses []models.Expense, investments []models.Investment) *Ledger {
	return &Ledger{
		user:        user,
		expenses:    expenses,
		investments: investments,
	}
}

func (l *Ledger) UserID() uint { return l.user.ID }

func (l *Ledger) Budget() decimal.Decimal { return l.user.InitialBudget }

func (l *Ledger) Expenses() []models.Expense { return l.expenses }

func (l *Ledger) Investments() []models.Investment { return l.investments }

// Allocation returns one envelope balance.
func (l *Ledger) Allocation(c Category) decimal.Decimal {
	switch c {
	case CategoryEssentials:
		return l.user.Essentials
	case CategorySavings:
		return l.user.Savings
	case CategorySelfInvestment:
		return l.user.SelfInvestment
	case CategoryCharity:
		return l.user.Charity
	case CategoryEmergency:
		return l.user.Emergency
	}
	return decimal.Zero
}

func (l *Ledger) setAllocation(c Category, v decimal.Decimal) {
	switch c {
	case CategoryEssentials:
		l.user.Essentials = v
	case CategorySavings:
		l.user.Savings = v
	case CategorySelfInvestment:
		l.user.SelfInvestment = v
	case CategoryCharity:
		l.user.Charity = v
	case CategoryEmergency:
		l.user.Emergency = v
	}
}

// Allocations returns a copy of all envelope balances.
func (l *Ledger) Allocations() map[Category]decimal.Decimal {
	m := make(map[Category]decimal.Decimal, 5)
	for _, c := range Categories() {
		m[c] = l.Allocation(c)
	}
	return m
}

// AllocationTotal is the sum of all envelope balances.
func (l *Ledger) AllocationTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range Categories() {
		total = total.Add(l.Allocation(c))
	}
	return total
}

// InvestedTotal is the sum of all active investment amounts.
func (l *Ledger) InvestedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range l.investments {
		total = total.Add(l.investments[i].Amount)
	}
	return total
}

// InjectBudget adds amount to the budget and splits it across the five
// envelopes by the fixed weights.
func (l *Ledger) InjectBudget(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	l.user.InitialBudget = l.user.InitialBudget.Add(amount)
	for _, c := range Categories() {
		l.setAllocation(c, l.Allocation(c).Add(amount.Mul(c.Weight())))
	}
	return nil
}

// RecordExpense spends amount from the envelope the label resolves to.
func (l *Ledger) RecordExpense(amount decimal.Decimal, categoryLabel, purpose, location string, date time.Time) (*models.Expense, error) {
	category, ok := CategoryFromLabel(categoryLabel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryLabel)
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if purpose == "" || location == "" {
		return nil, fmt.Errorf("%w: purpose and location are required", ErrInvalidAmount)
	}

	balance := l.Allocation(category)
	if amount.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: %s has %s, need %s",
			ErrInsufficientAllocation, category.Label(), balance, amount)
	}

	l.user.InitialBudget = l.user.InitialBudget.Sub(amount)
	l.setAllocation(category, balance.Sub(amount))

	expense := &models.Expense{
		UserID:   l.user.ID,
		Amount:   amount,
		Category: string(category),
		Purpose:  purpose,
		Location: location,
		Date:     date,
	}
	l.expenses = append(l.expenses, *expense)
	l.addedExpenses = append(l.addedExpenses, expense)
	return expense, nil
}

// DeleteExpense reverses the expense at index and removes it. Later
// indices shift down by one.
func (l *Ledger) DeleteExpense(index int) error {
	if index < 0 || index >= len(l.expenses) {
		return fmt.Errorf("%w: %d of %d expenses", ErrIndexOutOfRange, index, len(l.expenses))
	}

	e := l.expenses[index]
	category, ok := CategoryFromKey(e.Category)
	if !ok {
		return fmt.Errorf("%w: stored category %q", ErrUnknownCategory, e.Category)
	}

	l.user.InitialBudget = l.user.InitialBudget.Add(e.Amount)
	l.setAllocation(category, l.Allocation(category).Add(e.Amount))

	l.expenses = append(l.expenses[:index], l.expenses[index+1:]...)
	if e.ID != 0 {
		l.deletedExpenses = append(l.deletedExpenses, e.ID)
	} else {
		l.dropStagedExpense(e)
	}
	return nil
}

func (l *Ledger) dropStagedExpense(e models.Expense) {
	for i, staged := range l.addedExpenses {
		if staged.Amount.Equal(e.Amount) && staged.Category == e.Category &&
			staged.Purpose == e.Purpose && staged.Location == e.Location {
			l.addedExpenses = append(l.addedExpenses[:i], l.addedExpenses[i+1:]...)
			return
		}
	}
}

// SetAllocations replaces every envelope balance with caller-supplied
// values. This is an administrative override: the budget total is NOT
// adjusted, so it may desynchronize from the envelope sum.
func (l *Ledger) SetAllocations(values map[Category]decimal.Decimal) error {
	for c := range values {
		if _, ok := splitWeights[c]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
		}
	}
	for _, c := range Categories() {
		v, ok := values[c]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidAmount, c.Label())
		}
		if v.Sign() < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, c.Label())
		}
	}
	for _, c := range Categories() {
		l.setAllocation(c, values[c])
	}
	return nil
}

// RecordInvestment moves amount out of the self-investment envelope,
// spilling into emergency when self-investment alone cannot cover it.
// A single position above 10% of the total portfolio returns a
// non-blocking warning; the investment still commits.
func (l *Ledger) RecordInvestment(amount, price decimal.Decimal, invType string, allowedTypes []string) (*models.Investment, string, error) {
	allowed := false
	for _, t := range allowedTypes {
		if t == invType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownType, invType)
	}
	if amount.Sign() <= 0 || price.Sign() <= 0 {
		return nil, "", fmt.Errorf("%w: amount and price must be positive", ErrInvalidAmount)
	}

	selfInvest := l.Allocation(CategorySelfInvestment)
	emergency := l.Allocation(CategoryEmergency)
	investmentBudget := selfInvest.Add(emergency)
	if amount.GreaterThan(investmentBudget) {
		return nil, "", fmt.Errorf("%w: have %s, need %s",
			ErrInsufficientBudget, investmentBudget, amount)
	}

	warning := ""
	totalPortfolio := l.AllocationTotal().Add(l.InvestedTotal())
	if totalPortfolio.Sign() > 0 && amount.Div(totalPortfolio).GreaterThan(concentrationLimit) {
		warning = "investment exceeds 10% of total portfolio, concentration risk"
	}

	// Draw from self-investment first; the remainder comes out of the
	// emergency envelope so no balance goes negative.
	if amount.GreaterThan(selfInvest) {
		l.setAllocation(CategorySelfInvestment, decimal.Zero)
		l.setAllocation(CategoryEmergency, emergency.Sub(amount.Sub(selfInvest)))
	} else {
		l.setAllocation(CategorySelfInvestment, selfInvest.Sub(amount))
	}

	investment := &models.Investment{
		UserID: l.user.ID,
		Amount: amount,
		Price:  price,
		Type:   invType,
		Date:   time.Now(),
	}
	l.investments = append(l.investments, *investment)
	l.addedInvestments = append(l.addedInvestments, investment)
	return investment, warning, nil
}

// DeleteInvestment returns the invested amount to the self-investment
// envelope and removes the entry at index.
func (l *Ledger) DeleteInvestment(index int) error {
	if index < 0 || index >= len(l.investments) {
		return fmt.Errorf("%w: %d of %d investments", ErrIndexOutOfRange, index, len(l.investments))
	}

	inv := l.investments[index]
	l.setAllocation(CategorySelfInvestment, l.Allocation(CategorySelfInvestment).Add(inv.Amount))

	l.investments = append(l.investments[:index], l.investments[index+1:]...)
	if inv.ID != 0 {
		l.deletedInvestments = append(l.deletedInvestments, inv.ID)
	}
	return nil
}

// Reset zeroes the budget and every envelope and clears both ledgers.
// Idempotent.
func (l *Ledger) Reset() {
	l.user.InitialBudget = decimal.Zero
	for _, c := range Categories() {
		l.setAllocation(c, decimal.Zero)
	}
	l.expenses = nil
	l.investments = nil
	l.addedExpenses = nil
	l.addedInvestments = nil
	l.deletedExpenses = nil
	l.deletedInvestments = nil
	l.cleared = true
}
