package ledger

import "github.com/shopspring/decimal"

// Category is one of the five fixed budget envelopes.
type Category string

const (
	CategoryEssentials     Category = "essentials"
	CategorySavings        Category = "savings"
	CategorySelfInvestment Category = "self_investment"
	CategoryCharity        Category = "charity"
	CategoryEmergency      Category = "emergency"
)

// Categories returns all envelopes in display order.
func Categories() []Category {
	return []Category{
		CategoryEssentials,
		CategorySavings,
		CategorySelfInvestment,
		CategoryCharity,
		CategoryEmergency,
	}
}

// Split weights applied to every budget injection. They sum to exactly 1.
var splitWeights = map[Category]decimal.Decimal{
	CategoryEssentials:     decimal.New(50, -2),
	CategorySavings:        decimal.New(20, -2),
	CategorySelfInvestment: decimal.New(15, -2),
	CategoryCharity:        decimal.New(5, -2),
	CategoryEmergency:      decimal.New(10, -2),
}

// Weight returns the injection split weight of the envelope.
func (c Category) Weight() decimal.Decimal {
	return splitWeights[c]
}

// The display labels are the Vietnamese category names the clients send.
// One shared table; never duplicated at call sites.
var categoryLabels = map[Category]string{
	CategoryEssentials:     "Tiêu dùng thiết yếu",
	CategorySavings:        "Tiết kiệm",
	CategorySelfInvestment: "Đầu tư bản thân",
	CategoryCharity:        "Từ thiện",
	CategoryEmergency:      "Quỹ dự phòng",
}

var labelToCategory = func() map[string]Category {
	m := make(map[string]Category, len(categoryLabels))
	for c, l := range categoryLabels {
		m[l] = c
	}
	return m
}()

// Label returns the display label of the envelope.
func (c Category) Label() string {
	return categoryLabels[c]
}

// CategoryFromLabel resolves a display label to its envelope. Unrecognized
// labels are rejected, never defaulted.
func CategoryFromLabel(label string) (Category, bool) {
	c, ok := labelToCategory[label]
	return c, ok
}

// CategoryFromKey resolves a stored envelope key.
func CategoryFromKey(key string) (Category, bool) {
	c := Category(key)
	_, ok := splitWeights[c]
	return c, ok
}
