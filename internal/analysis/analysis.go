package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
)

// Report is the portfolio valuation derived from a ledger snapshot and
// the current Bitcoin price.
type Report struct {
	TotalInvested   decimal.Decimal `json:"totalInvested"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	ROI             decimal.Decimal `json:"roi"`
	Degraded        bool            `json:"degraded,omitempty"`
	Recommendations []string        `json:"recommendations"`
}

// Context is what recommendation rules see.
type Context struct {
	Budget        decimal.Decimal
	Allocations   map[ledger.Category]decimal.Decimal
	TotalInvested decimal.Decimal
}

// Rule is one recommendation: a predicate over the portfolio and the
// message emitted when it fires. Rules are data; adding one is appending
// to the list, not branching.
type Rule struct {
	Name    string
	Applies func(Context) bool
	Message string
}

var tenPercent = decimal.New(10, -2)
var twentyPercent = decimal.New(20, -2)

func defaultRules() []Rule {
	return []Rule{
		{
			Name: "over_concentration",
			Applies: func(c Context) bool {
				total := c.TotalInvested
				for _, v := range c.Allocations {
					total = total.Add(v)
				}
				if total.Sign() <= 0 {
					return false
				}
				return c.TotalInvested.Div(total).GreaterThan(tenPercent)
			},
			Message: "More than 10% of your portfolio is invested, consider rebalancing toward your envelopes.",
		},
		{
			Name: "under_saving",
			Applies: func(c Context) bool {
				if c.Budget.Sign() <= 0 {
					return false
				}
				return c.Allocations[ledger.CategorySavings].LessThan(c.Budget.Mul(twentyPercent))
			},
			Message: "Your savings envelope is below 20% of your budget, consider topping it up.",
		},
	}
}

// Engine values a ledger's investments and evaluates recommendation rules.
type Engine struct {
	rules       []Rule
	priceLinked map[string]bool
}

// NewEngine builds an engine with the default rules. priceLinkedTypes
// names the investment types revalued against the live Bitcoin price;
// everything else is held at face amount.
func NewEngine(priceLinkedTypes []string) *Engine {
	linked := make(map[string]bool, len(priceLinkedTypes))
	for _, t := range priceLinkedTypes {
		linked[t] = true
	}
	return &Engine{rules: defaultRules(), priceLinked: linked}
}

// AddRule appends a recommendation rule.
func (e *Engine) AddRule(r Rule) {
	e.rules = append(e.rules, r)
}

// Analyze values every investment and evaluates the rule list.
func (e *Engine) Analyze(led *ledger.Ledger, quote pricing.Quote) Report {
	currentPrice := decimal.NewFromFloat(quote.Price)

	totalInvested := decimal.Zero
	currentValue := decimal.Zero
	for _, inv := range led.Investments() {
		totalInvested = totalInvested.Add(inv.Amount)
		if e.priceLinked[inv.Type] && inv.Price.Sign() > 0 {
			currentValue = currentValue.Add(inv.Amount.Div(inv.Price).Mul(currentPrice))
		} else {
			currentValue = currentValue.Add(inv.Amount)
		}
	}

	roi := decimal.Zero
	if totalInvested.Sign() > 0 {
		roi = currentValue.Sub(totalInvested).
			Div(totalInvested).
			Mul(decimal.New(100, 0)).
			Round(2)
	}

	ruleCtx := Context{
		Budget:        led.Budget(),
		Allocations:   led.Allocations(),
		TotalInvested: totalInvested,
	}
	recommendations := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Applies(ruleCtx) {
			recommendations = append(recommendations, r.Message)
		}
	}

	return Report{
		TotalInvested:   totalInvested,
		CurrentValue:    currentValue.Round(2),
		ROI:             roi,
		Degraded:        quote.Degraded,
		Recommendations: recommendations,
	}
}
