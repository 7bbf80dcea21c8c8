package models

import "github.com/shopspring/decimal"

// SplitType tags the strategy used to divide an expense.
// The ledger stores the tag but trusts the submitted owed amounts.
type SplitType string

const (
	SplitEqually      SplitType = "equally"
	SplitByItem       SplitType = "by_item"
	SplitByPercentage SplitType = "by_percentage"
	SplitByShares     SplitType = "by_shares"
)

// Valid reports whether t is one of the known split strategies.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqually, SplitByItem, SplitByPercentage, SplitByShares:
		return true
	}
	return false
}

// DefaultCurrency is used when an expense or payment omits its currency.
const DefaultCurrency = "USD"

// UncategorizedCategory is the spending summary key for expenses without a category.
const UncategorizedCategory = "uncategorized"

// Expense is a purchase paid by one group member and split across members.
// An expense and its splits are written together and never modified.
type Expense struct {
	// ID is assigned by the store's identity counter.
	ID int64

	// GroupID is the group owning this expense.
	GroupID int64

	// Description is a short human-readable label (e.g., "Groceries").
	Description string

	// TotalAmount is the full amount paid. Always positive, in cents precision.
	TotalAmount decimal.Decimal

	// Currency is the ISO 4217 code. No conversion is ever performed.
	Currency string

	// Category is an optional spending category (e.g., "food", "transport").
	Category string

	// SplitType records how the splits were produced.
	SplitType SplitType

	// PaidByID is the member who paid the full amount.
	PaidByID int64

	// CreatedByID is the member who recorded the expense.
	CreatedByID int64

	// Splits are the members' shares. Their owed amounts sum to TotalAmount.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	ID         int64
	ExpenseID  int64
	UserID     int64
	OwedAmount decimal.Decimal
}

// SplitInput is a proposed share submitted with a new expense.
type SplitInput struct {
	UserID     int64
	OwedAmount decimal.Decimal
}

// NewExpense carries the caller-supplied fields of an expense to be created.
type NewExpense struct {
	GroupID     int64
	CreatorID   int64
	PayerID     int64
	Description string
	TotalAmount decimal.Decimal
	Currency    string
	Category    string
	SplitType   SplitType
	Splits      []SplitInput
}
