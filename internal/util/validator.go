package util

import (
	"fmt"
	"time"
)

// ValidateAmount checks a money amount (positive, below a sanity cap).
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %f", amount)
	}
	if amount >= 1e12 {
		return fmt.Errorf("amount too large, got %f", amount)
	}
	return nil
}

// ParseDate parses a date in the accepted request formats, defaulting to
// now when empty. Dates after today are rejected.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Now(), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var parsed time.Time
	var err error
	for _, layout := range layouts {
		if parsed, err = time.Parse(layout, dateStr); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	if parsed.Format("2006-01-02") > time.Now().Format("2006-01-02") {
		return time.Time{}, fmt.Errorf("date is in the future")
	}
	return parsed, nil
}

// ValidateText checks a required free-text field (purpose, location).
func ValidateText(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%s is empty", field)
	}
	if len(value) > max {
		return fmt.Errorf("%s too long, max %d characters", field, max)
	}
	return nil
}
