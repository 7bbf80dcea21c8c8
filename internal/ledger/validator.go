package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

// sumTolerance bounds the accepted difference between the split sum and the
// total. Amounts are normalized to cents before comparison, so any nonzero
// difference is at least one cent and fails.
var sumTolerance = decimal.New(1, -6)

// ValidateExpense checks proposed splits against the total and the group's
// current members. Checks run in order and stop at the first failure:
// payer membership, split membership, then the sum. It has no side effects.
func ValidateExpense(total decimal.Decimal, splits []models.SplitInput, members map[int64]struct{}, payerID int64) error {
	if _, ok := members[payerID]; !ok {
		return &NotAMemberError{Role: RolePayer, UserID: payerID}
	}

	for _, s := range splits {
		if _, ok := members[s.UserID]; !ok {
			return &NotAMemberError{Role: RoleSplit, UserID: s.UserID}
		}
	}

	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.OwedAmount)
	}
	if sum.Sub(total).Abs().GreaterThan(sumTolerance) {
		return &SplitSumMismatchError{Expected: total, Actual: sum}
	}

	return nil
}

// ValidatePayment checks a settlement's parties against the group's members.
func ValidatePayment(payerID, paidToID int64, members map[int64]struct{}) error {
	if payerID == paidToID {
		return &SelfPaymentError{UserID: payerID}
	}
	if _, ok := members[paidToID]; !ok {
		return &NotAMemberError{Role: RolePayee, UserID: paidToID}
	}
	if _, ok := members[payerID]; !ok {
		return &NotAMemberError{Role: RolePayer, UserID: payerID}
	}
	return nil
}

// normalizeExpense rounds amounts to cents and rejects malformed input before
// the invariant checks run.
func normalizeExpense(in *models.NewExpense) error {
	if in.SplitType == "" {
		in.SplitType = models.SplitEqually
	}
	if !in.SplitType.Valid() {
		return &InvalidSplitTypeError{SplitType: in.SplitType}
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return &MissingFieldError{Field: "description"}
	}
	in.Category = strings.TrimSpace(in.Category)
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return err
	}
	in.Currency = currency

	in.TotalAmount = models.RoundMoney(in.TotalAmount)
	if !validAmount(in.TotalAmount) {
		return &InvalidAmountError{Field: "total_amount", Amount: in.TotalAmount}
	}

	if len(in.Splits) == 0 {
		return &EmptySplitsError{}
	}

	seen := make(map[int64]struct{}, len(in.Splits))
	for i := range in.Splits {
		s := &in.Splits[i]
		s.OwedAmount = models.RoundMoney(s.OwedAmount)
		if !validAmount(s.OwedAmount) {
			return &InvalidAmountError{Field: "owed_amount", Amount: s.OwedAmount}
		}
		if _, dup := seen[s.UserID]; dup {
			return &DuplicateSplitError{UserID: s.UserID}
		}
		seen[s.UserID] = struct{}{}
	}
	return nil
}

// normalizePayment rounds the amount to cents and fills defaults.
func normalizePayment(in *models.NewPayment) error {
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return err
	}
	in.Currency = currency
	in.Notes = strings.TrimSpace(in.Notes)

	in.Amount = models.RoundMoney(in.Amount)
	if !validAmount(in.Amount) {
		return &InvalidAmountError{Field: "amount", Amount: in.Amount}
	}
	return nil
}

// validAmount reports whether a rounded amount is positive and storable.
func validAmount(d decimal.Decimal) bool {
	return d.IsPositive() && !d.GreaterThan(models.MaxAmount)
}

// normalizeCurrency upper-cases a currency code, defaulting an empty one.
func normalizeCurrency(c string) (string, error) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return models.DefaultCurrency, nil
	}
	if len(c) != 3 {
		return "", &InvalidCurrencyError{Currency: c}
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", &InvalidCurrencyError{Currency: c}
		}
	}
	return c, nil
}
