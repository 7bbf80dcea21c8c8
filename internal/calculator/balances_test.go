package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/models"
)

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
)

func trio() *models.Group {
	return &models.Group{
		ID: 10,
		Members: []models.User{
			{ID: carol, Email: "carol@example.com", FullName: "Carol"},
			{ID: alice, Email: "alice@example.com", FullName: "Alice"},
			{ID: bob, Email: "bob@example.com", FullName: "Bob"},
		},
	}
}

func equalExpense(payer int64, total string, users ...int64) *models.Expense {
	splits, err := SplitEqually(d(total), users)
	if err != nil {
		panic(err)
	}
	exp := &models.Expense{PaidByID: payer, TotalAmount: d(total)}
	for _, s := range splits {
		exp.Splits = append(exp.Splits, models.ExpenseSplit{UserID: s.UserID, OwedAmount: s.OwedAmount})
	}
	return exp
}

func balanceOf(t *testing.T, balances []models.MemberBalance, userID int64) string {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return models.FormatMoney(b.Balance)
		}
	}
	t.Fatalf("no balance for user %d", userID)
	return ""
}

func assertConserved(t *testing.T, balances []models.MemberBalance) {
	t.Helper()
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	assert.True(t, total.IsZero(), "balances must sum to zero, got %s", total)
}

func TestComputeBalances_ExpenseThenPayment(t *testing.T) {
	ledger := &models.GroupLedger{
		Group:    trio(),
		Expenses: []*models.Expense{equalExpense(alice, "90.00", alice, bob, carol)},
	}

	balances := ComputeBalances(ledger)
	require.Len(t, balances, 3)
	assert.Equal(t, []int64{alice, bob, carol},
		[]int64{balances[0].UserID, balances[1].UserID, balances[2].UserID}, "ordered by user id")
	assert.Equal(t, "60.00", balanceOf(t, balances, alice))
	assert.Equal(t, "-30.00", balanceOf(t, balances, bob))
	assert.Equal(t, "-30.00", balanceOf(t, balances, carol))
	assertConserved(t, balances)

	ledger.Payments = []*models.Payment{{PaidByID: bob, PaidToID: alice, Amount: d("30.00")}}

	balances = ComputeBalances(ledger)
	assert.Equal(t, "30.00", balanceOf(t, balances, alice))
	assert.Equal(t, "0.00", balanceOf(t, balances, bob))
	assert.Equal(t, "-30.00", balanceOf(t, balances, carol))
	assertConserved(t, balances)
}

func TestComputeBalances_MemberWithoutHistory(t *testing.T) {
	balances := ComputeBalances(&models.GroupLedger{Group: trio()})
	require.Len(t, balances, 3)
	for _, b := range balances {
		assert.True(t, b.Balance.IsZero())
		assert.NotEmpty(t, b.Email)
	}
}

func TestComputeBalances_ConservedWithUnevenCents(t *testing.T) {
	ledger := &models.GroupLedger{
		Group: trio(),
		Expenses: []*models.Expense{
			equalExpense(alice, "100.00", alice, bob, carol),
			equalExpense(bob, "10.01", alice, bob, carol),
			equalExpense(carol, "0.07", bob, carol),
			equalExpense(alice, "33.33", carol),
		},
		Payments: []*models.Payment{
			{PaidByID: carol, PaidToID: alice, Amount: d("12.34")},
			{PaidByID: bob, PaidToID: carol, Amount: d("0.01")},
		},
	}

	balances := ComputeBalances(ledger)
	assertConserved(t, balances)

	again := ComputeBalances(ledger)
	require.Len(t, again, len(balances))
	for i := range balances {
		assert.Equal(t, balances[i].UserID, again[i].UserID)
		assert.True(t, balances[i].Balance.Equal(again[i].Balance), "computation must be idempotent")
	}
}

func TestSimplifyDebts(t *testing.T) {
	ledger := &models.GroupLedger{
		Group:    trio(),
		Expenses: []*models.Expense{equalExpense(alice, "90.00", alice, bob, carol)},
	}
	balances := ComputeBalances(ledger)

	edges := SimplifyDebts(balances)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, alice, e.ToUserID)
		assert.Equal(t, "30.00", models.FormatMoney(e.Amount))
	}
	assert.Equal(t, bob, edges[0].FromUserID, "ties broken by user id")
	assert.Equal(t, carol, edges[1].FromUserID)

	// Applying the suggested transfers settles every balance.
	for _, e := range edges {
		ledger.Payments = append(ledger.Payments, &models.Payment{PaidByID: e.FromUserID, PaidToID: e.ToUserID, Amount: e.Amount})
	}
	for _, b := range ComputeBalances(ledger) {
		assert.True(t, b.Balance.IsZero(), "user %d still has %s", b.UserID, b.Balance)
	}
}

func TestSimplifyDebts_AllSettled(t *testing.T) {
	assert.Empty(t, SimplifyDebts(ComputeBalances(&models.GroupLedger{Group: trio()})))
}
