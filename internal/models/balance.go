package models

import "github.com/shopspring/decimal"

// MemberBalance is a member's net position in a group.
// Positive Balance means the group owes the member; negative means the member owes.
type MemberBalance struct {
	UserID   int64
	Email    string
	FullName string

	TotalPaid decimal.Decimal // Σ totals of expenses this member paid
	TotalOwed decimal.Decimal // Σ this member's split amounts
	SentPaid  decimal.Decimal // Σ payments this member sent
	Received  decimal.Decimal // Σ payments this member received

	Balance decimal.Decimal
}

// DebtEdge is a suggested transfer that settles part of the group's debts.
type DebtEdge struct {
	FromUserID int64 // Member who owes
	ToUserID   int64 // Member who is owed
	Amount     decimal.Decimal
}

// GroupLedger is a consistent snapshot of a group's full history.
type GroupLedger struct {
	Group    *Group
	Expenses []*Expense
	Payments []*Payment
}
