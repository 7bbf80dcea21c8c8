// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that finds no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends without changing the
// ledger or service layer. Implementations must be safe for concurrent use.
type Store interface {
	// CreateUser persists a new user. user.ID is populated by the store.
	// A duplicate email wraps ErrConflict.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Wraps ErrNotFound if missing.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Wraps ErrNotFound if missing.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// CreateGroup persists a new group with its owner as the first member.
	// group.ID and group.Members are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members ordered by user ID.
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)

	// ListGroupsForUser retrieves every group the user is a member of.
	ListGroupsForUser(ctx context.Context, userID int64) ([]*models.Group, error)

	// AddGroupMember adds a user to a group. Adding an existing member is a
	// no-op and reports added=false.
	AddGroupMember(ctx context.Context, groupID, userID int64) (added bool, err error)

	// CreateExpense persists an expense and all of its splits atomically.
	// IDs are assigned by the store; either every row exists or none does.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID int64) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses in creation order.
	ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error)

	// CreatePayment persists a payment. payment.ID is populated by the store.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID int64) (*models.Payment, error)

	// ListPaymentsByGroup retrieves a group's payments in creation order.
	ListPaymentsByGroup(ctx context.Context, groupID int64) ([]*models.Payment, error)

	// LoadGroupLedger reads the group, its members, expenses (with splits)
	// and payments from one consistent snapshot of committed rows.
	LoadGroupLedger(ctx context.Context, groupID int64) (*models.GroupLedger, error)

	// SpendingByCategory sums the user's owed split amounts per expense
	// category across all groups.
	SpendingByCategory(ctx context.Context, userID int64) (map[string]decimal.Decimal, error)

	// Close releases any resources held by the store.
	Close() error
}
