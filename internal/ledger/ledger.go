// Package ledger implements the group expense ledger: validated expense and
// payment writes, and balances derived from a group's full history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/events"
	"github.com/mmynk/splitsmart/internal/metrics"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
)

// Ledger coordinates validation, persistence and balance computation.
// It holds no mutable state of its own and is safe for concurrent use.
type Ledger struct {
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets the publisher notified after each committed write.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithMetrics sets the collectors updated by ledger operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// New creates a Ledger over the given store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateGroup creates a group owned by ownerID, who becomes its first member.
func (l *Ledger) CreateGroup(ctx context.Context, ownerID int64, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &MissingFieldError{Field: "name"}
	}

	if _, err := l.store.GetUserByID(ctx, ownerID); err != nil {
		return nil, lookupErr("create group", "user", ownerID, err)
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
	}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, storeErr("create group", err)
	}

	slog.InfoContext(ctx, "Group created", "group_id", group.ID, "owner_id", ownerID)
	return group, nil
}

// GetGroup returns a group with its members.
func (l *Ledger) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, lookupErr("get group", "group", groupID, err)
	}
	return group, nil
}

// Authorize returns the group if userID is one of its members.
// A non-member gets a NotAMemberError with Role "caller".
func (l *Ledger) Authorize(ctx context.Context, groupID, userID int64) (*models.Group, error) {
	group, err := l.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, &NotAMemberError{Role: RoleCaller, UserID: userID}
	}
	return group, nil
}

// ListGroups returns every group userID belongs to.
func (l *Ledger) ListGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	groups, err := l.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list groups", err)
	}
	return groups, nil
}

// AddMember adds the user registered under email to the group. The actor must
// already be a member. Adding an existing member is a no-op that reports
// added=false.
func (l *Ledger) AddMember(ctx context.Context, groupID, actorID int64, email string) (group *models.Group, added bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, &MissingFieldError{Field: "email"}
	}

	if _, err := l.Authorize(ctx, groupID, actorID); err != nil {
		return nil, false, err
	}

	user, err := l.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, lookupErr("add member", "user", email, err)
	}

	added, err = l.store.AddGroupMember(ctx, groupID, user.ID)
	if err != nil {
		return nil, false, storeErr("add member", err)
	}

	group, err = l.GetGroup(ctx, groupID)
	if err != nil {
		return nil, false, err
	}

	slog.InfoContext(ctx, "Group member added",
		"group_id", groupID,
		"user_id", user.ID,
		"added", added,
	)
	return group, added, nil
}

// CreateExpense validates and records an expense with its splits.
// Validation runs against the group's current members before anything is
// written; a rejected expense leaves the store untouched.
func (l *Ledger) CreateExpense(ctx context.Context, in models.NewExpense) (*models.Expense, error) {
	in.Splits = append([]models.SplitInput(nil), in.Splits...)
	if err := normalizeExpense(&in); err != nil {
		l.metrics.ValidationFailed("create_expense")
		return nil, err
	}

	group, err := l.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(in.CreatorID) {
		l.metrics.ValidationFailed("create_expense")
		return nil, &NotAMemberError{Role: RoleCreator, UserID: in.CreatorID}
	}
	if err := ValidateExpense(in.TotalAmount, in.Splits, group.MemberIDs(), in.PayerID); err != nil {
		l.metrics.ValidationFailed("create_expense")
		slog.WarnContext(ctx, "Expense rejected", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		Description: in.Description,
		TotalAmount: in.TotalAmount,
		Currency:    in.Currency,
		Category:    in.Category,
		SplitType:   in.SplitType,
		PaidByID:    in.PayerID,
		CreatedByID: in.CreatorID,
		Splits:      make([]models.ExpenseSplit, len(in.Splits)),
	}
	for i, s := range in.Splits {
		expense.Splits[i] = models.ExpenseSplit{UserID: s.UserID, OwedAmount: s.OwedAmount}
	}

	if err := l.store.CreateExpense(ctx, expense); err != nil {
		slog.ErrorContext(ctx, "Failed to store expense", "group_id", in.GroupID, "error", err)
		return nil, storeErr("create expense", err)
	}
	l.metrics.WriteCommitted("expense")

	stored, err := l.store.GetExpense(ctx, expense.ID)
	if err != nil {
		// The expense is committed; a retry would duplicate it.
		slog.WarnContext(ctx, "Failed to reload expense after commit", "expense_id", expense.ID, "error", err)
		stored = expense
	}

	slog.InfoContext(ctx, "Expense created",
		"group_id", stored.GroupID,
		"expense_id", stored.ID,
		"total", models.FormatMoney(stored.TotalAmount),
		"splits", len(stored.Splits),
	)

	l.publish(ctx, events.NewExpenseCreated(stored.GroupID, stored.ID, stored.CreatedByID,
		models.FormatMoney(stored.TotalAmount), stored.Currency))

	return stored, nil
}

// RecordPayment validates and records a settlement payment between members.
// The payer is the acting user, so a non-member payer is refused with
// Role "caller".
func (l *Ledger) RecordPayment(ctx context.Context, in models.NewPayment) (*models.Payment, error) {
	if err := normalizePayment(&in); err != nil {
		l.metrics.ValidationFailed("record_payment")
		return nil, err
	}

	group, err := l.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(in.PayerID) {
		l.metrics.ValidationFailed("record_payment")
		return nil, &NotAMemberError{Role: RoleCaller, UserID: in.PayerID}
	}
	if err := ValidatePayment(in.PayerID, in.PaidToID, group.MemberIDs()); err != nil {
		l.metrics.ValidationFailed("record_payment")
		slog.WarnContext(ctx, "Payment rejected", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	payment := &models.Payment{
		GroupID:  in.GroupID,
		Amount:   in.Amount,
		Currency: in.Currency,
		PaidByID: in.PayerID,
		PaidToID: in.PaidToID,
		Notes:    in.Notes,
	}
	if err := l.store.CreatePayment(ctx, payment); err != nil {
		slog.ErrorContext(ctx, "Failed to store payment", "group_id", in.GroupID, "error", err)
		return nil, storeErr("record payment", err)
	}
	l.metrics.WriteCommitted("payment")

	stored, err := l.store.GetPayment(ctx, payment.ID)
	if err != nil {
		// The payment is committed; a retry would duplicate it.
		slog.WarnContext(ctx, "Failed to reload payment after commit", "payment_id", payment.ID, "error", err)
		stored = payment
	}

	slog.InfoContext(ctx, "Payment recorded",
		"group_id", stored.GroupID,
		"payment_id", stored.ID,
		"amount", models.FormatMoney(stored.Amount),
	)

	l.publish(ctx, events.NewPaymentRecorded(stored.GroupID, stored.ID, stored.PaidByID,
		models.FormatMoney(stored.Amount), stored.Currency))

	return stored, nil
}

// ListExpenses returns the group's expenses in creation order.
func (l *Ledger) ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	if _, err := l.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	return expenses, nil
}

// ListPayments returns the group's payments in creation order.
func (l *Ledger) ListPayments(ctx context.Context, groupID int64) ([]*models.Payment, error) {
	if _, err := l.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	payments, err := l.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	return payments, nil
}

// ComputeBalances derives every member's balance from the group's committed
// history. Results are ordered by user ID and sum to exactly zero.
func (l *Ledger) ComputeBalances(ctx context.Context, groupID int64) ([]models.MemberBalance, error) {
	start := time.Now()
	history, err := l.store.LoadGroupLedger(ctx, groupID)
	if err != nil {
		return nil, lookupErr("compute balances", "group", groupID, err)
	}
	balances := calculator.ComputeBalances(history)
	l.metrics.ObserveBalanceComputation(time.Since(start))
	return balances, nil
}

// SuggestSettlements returns a short list of payments that would settle
// every balance in the group.
func (l *Ledger) SuggestSettlements(ctx context.Context, groupID int64) ([]models.DebtEdge, error) {
	balances, err := l.ComputeBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SimplifyDebts(balances), nil
}

// SpendingSummary returns the user's total owed amount per category across
// all of their groups.
func (l *Ledger) SpendingSummary(ctx context.Context, userID int64) (map[string]decimal.Decimal, error) {
	summary, err := l.store.SpendingByCategory(ctx, userID)
	if err != nil {
		return nil, storeErr("spending summary", err)
	}
	return summary, nil
}

// publish emits an event after commit. Failures are logged and counted only.
func (l *Ledger) publish(ctx context.Context, event *events.Event) {
	if err := l.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		l.metrics.EventPublishFailed()
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", event.Type,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

// lookupErr maps a store miss to NotFoundError and anything else to StoreError.
func lookupErr(op, entity string, id any, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
	}
	return storeErr(op, err)
}
