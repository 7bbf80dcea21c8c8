package models

import "github.com/shopspring/decimal"

// Payment is a settlement transfer recorded between two group members.
// Payments are append-only; a mistake is corrected by an offsetting payment.
type Payment struct {
	// ID is assigned by the store's identity counter.
	ID int64

	// GroupID is the group this payment belongs to.
	GroupID  int64

	// Amount is the transferred amount. Always positive.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code.
	Currency string

	// PaidByID is the member who sent the money (debtor settling up).
	PaidByID int64

	// PaidToID is the member who received it (creditor being paid).
	PaidToID int64

	// Notes is an optional free-text remark.
	Notes string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// NewPayment carries the caller-supplied fields of a payment to be recorded.
type NewPayment struct {
	GroupID  int64
	// PayerID is the user recording the payment; payments are always
	// recorded by the member who sent them.
	PayerID  int64
	PaidToID int64
	Amount   decimal.Decimal
	Currency string
	Notes    string
}
