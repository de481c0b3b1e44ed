package util

import (
	"strings"
	"testing"
	"time"
)

func TestValidateAmount_Positive(t *testing.T) {
	testCases := []float64{0.01, 1.0, 100.5, 9999999.99}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err != nil {
			t.Errorf("ValidateAmount(%f) error = %v, want nil", amount, err)
		}
	}
}

func TestValidateAmount_Zero(t *testing.T) {
	err := ValidateAmount(0)

	if err == nil {
		t.Error("ValidateAmount(0) error = nil, want error")
	}
}

func TestValidateAmount_Negative(t *testing.T) {
	testCases := []float64{-0.01, -100, -9999.99}

	for _, amount := range testCases {
		err := ValidateAmount(amount)
		if err == nil {
			t.Errorf("ValidateAmount(%f) error = nil, want error", amount)
		}
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	err := ValidateAmount(1e12)

	if err == nil {
		t.Error("ValidateAmount(1e12) error = nil, want error")
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15T10:30:00",
		"2025-06-15T10:30:00Z",
	}

	for _, date := range testCases {
		_, err := ParseDate(date)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestParseDate_EmptyDefaultsToNow(t *testing.T) {
	parsed, err := ParseDate("")
	if err != nil {
		t.Fatalf("ParseDate(\"\") error = %v, want nil", err)
	}

	if time.Since(parsed) > time.Minute {
		t.Errorf("ParseDate(\"\") = %v, want approximately now", parsed)
	}
}

func TestParseDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		_, err := ParseDate(date)
		if err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestParseDate_Future(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	_, err := ParseDate(tomorrow)
	if err == nil {
		t.Errorf("ParseDate(%q) error = nil, want error", tomorrow)
	}
}

func TestParseDate_TodayIsAllowed(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	_, err := ParseDate(today)
	if err != nil {
		t.Errorf("ParseDate(%q) error = %v, want nil", today, err)
	}
}

func TestValidateText_Valid(t *testing.T) {
	testCases := []string{"groceries", "tiền nhà", "a"}

	for _, value := range testCases {
		err := ValidateText("purpose", value, 255)
		if err != nil {
			t.Errorf("ValidateText(%q) error = %v, want nil", value, err)
		}
	}
}

func TestValidateText_Empty(t *testing.T) {
	err := ValidateText("purpose", "", 255)

	if err == nil {
		t.Error("ValidateText(\"\") error = nil, want error")
	}
}

func TestValidateText_TooLong(t *testing.T) {
	err := ValidateText("purpose", strings.Repeat("a", 256), 255)

	if err == nil {
		t.Error("ValidateText() with long string error = nil, want error")
	}
}
