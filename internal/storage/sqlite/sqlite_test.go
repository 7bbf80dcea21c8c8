package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, email, "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createGroup(t *testing.T, store *SQLiteStore, owner *models.User, others ...*models.User) *models.Group {
	t.Helper()
	ctx := context.Background()
	group := &models.Group{Name: "Roommates", OwnerID: owner.ID}
	require.NoError(t, store.CreateGroup(ctx, group))
	for _, u := range others {
		_, err := store.AddGroupMember(ctx, group.ID, u.ID)
		require.NoError(t, err)
	}
	return group
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newExpense(groupID, payerID int64, total string, splits ...models.ExpenseSplit) *models.Expense {
	return &models.Expense{
		GroupID:     groupID,
		Description: "Dinner",
		TotalAmount: money(total),
		Currency:    models.DefaultCurrency,
		Category:    "food",
		SplitType:   models.SplitEqually,
		PaidByID:    payerID,
		CreatedByID: payerID,
		Splits:      splits,
	}
}

func split(userID int64, amount string) models.ExpenseSplit {
	return models.ExpenseSplit{UserID: userID, OwedAmount: money(amount)}
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	version, err := Migrate(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	version, err = Migrate(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	assert.NotZero(t, alice.ID)

	t.Run("lookup by email and id", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := store.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Email, byID.Email)
	})

	t.Run("missing user wraps ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = store.GetUserByID(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")

	group := &models.Group{Name: "Trip", Description: "Ski weekend", OwnerID: alice.ID}
	require.NoError(t, store.CreateGroup(ctx, group))
	assert.NotZero(t, group.ID)
	require.Len(t, group.Members, 1)
	assert.Equal(t, alice.ID, group.Members[0].ID)

	t.Run("adding a member twice is a no-op", func(t *testing.T) {
		added, err := store.AddGroupMember(ctx, group.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = store.AddGroupMember(ctx, group.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, added)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, got.Members, 2)
		assert.Equal(t, alice.ID, got.Members[0].ID)
		assert.Equal(t, bob.ID, got.Members[1].ID)
	})

	t.Run("list groups for member", func(t *testing.T) {
		other := &models.Group{Name: "Office", OwnerID: bob.ID}
		require.NoError(t, store.CreateGroup(ctx, other))

		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, group.ID, groups[0].ID)
		assert.Equal(t, other.ID, groups[1].ID)

		groups, err = store.ListGroupsForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, groups, 1)
	})

	t.Run("missing group wraps ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	group := createGroup(t, store, alice, bob)
	otherGroup := createGroup(t, store, bob)

	t.Run("create assigns ids and round-trips amounts", func(t *testing.T) {
		expense := newExpense(group.ID, alice.ID, "10.01", split(alice.ID, "5.01"), split(bob.ID, "5.00"))
		require.NoError(t, store.CreateExpense(ctx, expense))
		assert.NotZero(t, expense.ID)
		assert.NotZero(t, expense.CreatedAt)
		for _, s := range expense.Splits {
			assert.NotZero(t, s.ID)
			assert.Equal(t, expense.ID, s.ExpenseID)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.True(t, money("10.01").Equal(got.TotalAmount))
		assert.Equal(t, "food", got.Category)
		assert.Equal(t, models.SplitEqually, got.SplitType)
		require.Len(t, got.Splits, 2)
		assert.True(t, money("5.01").Equal(got.Splits[0].OwedAmount))
		assert.True(t, money("5.00").Equal(got.Splits[1].OwedAmount))
	})

	t.Run("list is group scoped and in creation order", func(t *testing.T) {
		second := newExpense(group.ID, bob.ID, "3.00", split(alice.ID, "3.00"))
		require.NoError(t, store.CreateExpense(ctx, second))
		elsewhere := newExpense(otherGroup.ID, bob.ID, "7.00", split(bob.ID, "7.00"))
		require.NoError(t, store.CreateExpense(ctx, elsewhere))

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Less(t, expenses[0].ID, expenses[1].ID)
		assert.Equal(t, second.ID, expenses[1].ID)
		assert.Len(t, expenses[1].Splits, 1)

		for _, e := range expenses {
			assert.Equal(t, group.ID, e.GroupID)
		}
	})

	t.Run("failed split insert leaves no expense row", func(t *testing.T) {
		before, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)

		broken := newExpense(group.ID, alice.ID, "4.00", split(alice.ID, "2.00"), split(9999, "2.00"))
		require.Error(t, store.CreateExpense(ctx, broken))
		assert.Zero(t, broken.ID)

		after, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("missing expense wraps ErrNotFound", func(t *testing.T) {
		_, err := store.GetExpense(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestConcurrentExpenseCreation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	group := createGroup(t, store, alice, bob)

	const writers = 10
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			expense := newExpense(group.ID, alice.ID, "2.00", split(alice.ID, "1.00"), split(bob.ID, "1.00"))
			expense.Description = fmt.Sprintf("expense %d", i)
			return store.CreateExpense(ctx, expense)
		})
	}
	require.NoError(t, g.Wait())

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, writers)

	ids := make(map[int64]struct{}, writers)
	for _, e := range expenses {
		ids[e.ID] = struct{}{}
		assert.Len(t, e.Splits, 2)
	}
	assert.Len(t, ids, writers)
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	group := createGroup(t, store, alice, bob)

	payment := &models.Payment{
		GroupID:  group.ID,
		Amount:   money("30.00"),
		Currency: models.DefaultCurrency,
		PaidByID: bob.ID,
		PaidToID: alice.ID,
		Notes:    "settling up",
	}
	require.NoError(t, store.CreatePayment(ctx, payment))
	assert.NotZero(t, payment.ID)

	silent := &models.Payment{
		GroupID:  group.ID,
		Amount:   money("1.50"),
		Currency: models.DefaultCurrency,
		PaidByID: alice.ID,
		PaidToID: bob.ID,
	}
	require.NoError(t, store.CreatePayment(ctx, silent))

	got, err := store.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.True(t, money("30.00").Equal(got.Amount))
	assert.Equal(t, "settling up", got.Notes)

	payments, err := store.ListPaymentsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, payment.ID, payments[0].ID)
	assert.Empty(t, payments[1].Notes)

	_, err = store.GetPayment(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	selfPay := &models.Payment{
		GroupID:  group.ID,
		Amount:   money("1.00"),
		Currency: models.DefaultCurrency,
		PaidByID: bob.ID,
		PaidToID: bob.ID,
	}
	assert.Error(t, store.CreatePayment(ctx, selfPay))
}

func TestLoadGroupLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	group := createGroup(t, store, alice, bob)

	require.NoError(t, store.CreateExpense(ctx,
		newExpense(group.ID, alice.ID, "20.00", split(alice.ID, "10.00"), split(bob.ID, "10.00"))))
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{
		GroupID: group.ID, Amount: money("10.00"), Currency: "USD", PaidByID: bob.ID, PaidToID: alice.ID,
	}))

	ledger, err := store.LoadGroupLedger(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, ledger.Group.ID)
	assert.Len(t, ledger.Group.Members, 2)
	require.Len(t, ledger.Expenses, 1)
	assert.Len(t, ledger.Expenses[0].Splits, 2)
	assert.Len(t, ledger.Payments, 1)

	_, err = store.LoadGroupLedger(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSpendingByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")
	group := createGroup(t, store, alice, bob)

	food := newExpense(group.ID, alice.ID, "30.00", split(alice.ID, "15.00"), split(bob.ID, "15.00"))
	moreFood := newExpense(group.ID, bob.ID, "5.50", split(alice.ID, "5.50"))
	misc := newExpense(group.ID, bob.ID, "8.00", split(alice.ID, "8.00"))
	misc.Category = ""
	for _, e := range []*models.Expense{food, moreFood, misc} {
		require.NoError(t, store.CreateExpense(ctx, e))
	}

	summary, err := store.SpendingByCategory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.True(t, money("20.50").Equal(summary["food"]))
	assert.True(t, money("8.00").Equal(summary[models.UncategorizedCategory]))

	summary, err = store.SpendingByCategory(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
