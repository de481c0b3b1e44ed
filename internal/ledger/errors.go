package ledger

import "errors"

var (
	// ErrInvalidAmount rejects non-positive or malformed amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnknownCategory rejects labels outside the five envelopes.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInsufficientAllocation rejects an expense larger than its envelope.
	ErrInsufficientAllocation = errors.New("insufficient allocation")
	// ErrInsufficientBudget rejects an investment larger than the
	// self-investment plus emergency envelopes.
	ErrInsufficientBudget = errors.New("insufficient investment budget")
	// ErrUnknownType rejects investment types outside the allow-list.
	ErrUnknownType = errors.New("unknown investment type")
	// ErrIndexOutOfRange rejects deletes referencing a missing entry.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrConflict signals a lost-update race; the caller should retry.
	ErrConflict = errors.New("concurrent modification")
	// ErrNotFound signals a missing account.
	ErrNotFound = errors.New("account not found")
)
