package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func members(ids ...int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestValidateExpense(t *testing.T) {
	group := members(1, 2, 3)

	tests := []struct {
		name     string
		total    string
		splits   []models.SplitInput
		payerID  int64
		wantRole string
		wantSum  bool
	}{
		{
			name:    "valid equal split",
			total:   "90.00",
			splits:  []models.SplitInput{{UserID: 1, OwedAmount: d("30")}, {UserID: 2, OwedAmount: d("30")}, {UserID: 3, OwedAmount: d("30")}},
			payerID: 1,
		},
		{
			name:     "payer outside group",
			total:    "10.00",
			splits:   []models.SplitInput{{UserID: 1, OwedAmount: d("10")}},
			payerID:  9,
			wantRole: RolePayer,
		},
		{
			name:     "split user outside group",
			total:    "10.00",
			splits:   []models.SplitInput{{UserID: 1, OwedAmount: d("5")}, {UserID: 9, OwedAmount: d("5")}},
			payerID:  1,
			wantRole: RoleSplit,
		},
		{
			name:     "payer checked before sum",
			total:    "10.00",
			splits:   []models.SplitInput{{UserID: 1, OwedAmount: d("1")}},
			payerID:  9,
			wantRole: RolePayer,
		},
		{
			name:    "sum mismatch",
			total:   "30.00",
			splits:  []models.SplitInput{{UserID: 1, OwedAmount: d("15")}, {UserID: 2, OwedAmount: d("10")}},
			payerID: 1,
			wantSum: true,
		},
		{
			name:    "off by one cent",
			total:   "10.00",
			splits:  []models.SplitInput{{UserID: 1, OwedAmount: d("5.00")}, {UserID: 2, OwedAmount: d("5.01")}},
			payerID: 2,
			wantSum: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(d(tt.total), tt.splits, group, tt.payerID)

			switch {
			case tt.wantRole != "":
				var notMember *NotAMemberError
				require.ErrorAs(t, err, &notMember)
				assert.Equal(t, tt.wantRole, notMember.Role)
				assert.ErrorIs(t, err, ErrValidation)
			case tt.wantSum:
				var mismatch *SplitSumMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.ErrorIs(t, err, ErrValidation)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitSumMismatchReportsAmounts(t *testing.T) {
	err := ValidateExpense(d("30.00"),
		[]models.SplitInput{{UserID: 1, OwedAmount: d("20.00")}, {UserID: 2, OwedAmount: d("5.00")}},
		members(1, 2), 1)

	var mismatch *SplitSumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "30.00", models.FormatMoney(mismatch.Expected))
	assert.Equal(t, "25.00", models.FormatMoney(mismatch.Actual))
	assert.Equal(t, "sum of splits (25.00) does not match total amount (30.00)", err.Error())
}

func TestValidatePayment(t *testing.T) {
	group := members(1, 2)

	err := ValidatePayment(1, 1, group)
	var self *SelfPaymentError
	assert.ErrorAs(t, err, &self)

	err = ValidatePayment(1, 9, group)
	var notMember *NotAMemberError
	require.ErrorAs(t, err, &notMember)
	assert.Equal(t, RolePayee, notMember.Role)

	err = ValidatePayment(9, 1, group)
	require.ErrorAs(t, err, &notMember)
	assert.Equal(t, RolePayer, notMember.Role)

	assert.NoError(t, ValidatePayment(2, 1, group))
}

func TestNormalizeExpense(t *testing.T) {
	valid := func() models.NewExpense {
		return models.NewExpense{
			Description: "  Groceries ",
			TotalAmount: d("10.005"),
			Currency:    "eur",
			Splits:      []models.SplitInput{{UserID: 1, OwedAmount: d("10.005")}},
		}
	}

	t.Run("fills defaults and rounds", func(t *testing.T) {
		in := valid()
		in.Currency = ""
		require.NoError(t, normalizeExpense(&in))
		assert.Equal(t, models.SplitEqually, in.SplitType)
		assert.Equal(t, models.DefaultCurrency, in.Currency)
		assert.Equal(t, "Groceries", in.Description)
		assert.Equal(t, "10.01", models.FormatMoney(in.TotalAmount))
		assert.Equal(t, "10.01", models.FormatMoney(in.Splits[0].OwedAmount))
	})

	t.Run("upper-cases currency", func(t *testing.T) {
		in := valid()
		require.NoError(t, normalizeExpense(&in))
		assert.Equal(t, "EUR", in.Currency)
	})

	rejects := []struct {
		name   string
		mutate func(*models.NewExpense)
		target any
	}{
		{"missing description", func(e *models.NewExpense) { e.Description = " " }, new(*MissingFieldError)},
		{"zero total", func(e *models.NewExpense) { e.TotalAmount = d("0.001") }, new(*InvalidAmountError)},
		{"negative total", func(e *models.NewExpense) { e.TotalAmount = d("-5") }, new(*InvalidAmountError)},
		{"total above max", func(e *models.NewExpense) { e.TotalAmount = d("100000000000000000000") }, new(*InvalidAmountError)},
		{"split above max", func(e *models.NewExpense) {
			e.Splits[0].OwedAmount = models.MaxAmount.Add(d("0.01"))
		}, new(*InvalidAmountError)},
		{"no splits", func(e *models.NewExpense) { e.Splits = nil }, new(*EmptySplitsError)},
		{"zero split", func(e *models.NewExpense) { e.Splits[0].OwedAmount = decimal.Zero }, new(*InvalidAmountError)},
		{"unknown split type", func(e *models.NewExpense) { e.SplitType = "by_mood" }, new(*InvalidSplitTypeError)},
		{"bad currency", func(e *models.NewExpense) { e.Currency = "EURO" }, new(*InvalidCurrencyError)},
		{"duplicate split user", func(e *models.NewExpense) {
			e.Splits = []models.SplitInput{{UserID: 1, OwedAmount: d("5")}, {UserID: 1, OwedAmount: d("5")}}
		}, new(*DuplicateSplitError)},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := normalizeExpense(&in)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNormalizePayment(t *testing.T) {
	in := models.NewPayment{Amount: d("12.345"), Notes: " thanks "}
	require.NoError(t, normalizePayment(&in))
	assert.Equal(t, "12.35", models.FormatMoney(in.Amount))
	assert.Equal(t, models.DefaultCurrency, in.Currency)
	assert.Equal(t, "thanks", in.Notes)

	in = models.NewPayment{Amount: d("-1")}
	var invalid *InvalidAmountError
	assert.ErrorAs(t, normalizePayment(&in), &invalid)

	in = models.NewPayment{Amount: d("50000000000000000000")}
	err := normalizePayment(&in)
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "must not exceed 10000000000000.00")

	in = models.NewPayment{Amount: models.MaxAmount}
	require.NoError(t, normalizePayment(&in))
}

func TestErrorKinds(t *testing.T) {
	notFound := &NotFoundError{Entity: "group", ID: "7"}
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrValidation)

	cause := errors.New("disk I/O error")
	wrapped := storeErr("create expense", cause)
	assert.ErrorIs(t, wrapped, ErrStore)
	assert.ErrorIs(t, wrapped, cause)

	assert.Same(t, notFound, storeErr("get group", notFound))

	assert.True(t, (&NotAMemberError{Role: RoleCreator}).Acting())
	assert.False(t, (&NotAMemberError{Role: RolePayer}).Acting())
}
