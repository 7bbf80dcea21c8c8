package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

// Error kinds. Every error returned by the ledger matches exactly one of these
// via errors.Is, so callers branch on kind rather than message text.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")
)

// SplitSumMismatchError reports splits that do not add up to the expense total.
type SplitSumMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *SplitSumMismatchError) Error() string {
	return fmt.Sprintf("sum of splits (%s) does not match total amount (%s)",
		models.FormatMoney(e.Actual), models.FormatMoney(e.Expected))
}

func (e *SplitSumMismatchError) Is(target error) bool { return target == ErrValidation }

// Roles reported by NotAMemberError.
const (
	RolePayer   = "payer"
	RoleSplit   = "split"
	RolePayee   = "payee"
	RoleCreator = "creator"
	RoleCaller  = "caller"
)

// NotAMemberError reports a user referenced in a role who is not a group member.
type NotAMemberError struct {
	Role   string
	UserID int64
}

func (e *NotAMemberError) Error() string {
	return fmt.Sprintf("%s user %d is not a member of this group", e.Role, e.UserID)
}

func (e *NotAMemberError) Is(target error) bool { return target == ErrValidation }

// Acting reports whether the non-member is the user performing the operation
// rather than a user named in its input.
func (e *NotAMemberError) Acting() bool {
	return e.Role == RoleCreator || e.Role == RoleCaller
}

// SelfPaymentError reports a payment whose payer and payee are the same user.
type SelfPaymentError struct {
	UserID int64
}

func (e *SelfPaymentError) Error() string {
	return "cannot record a payment to yourself"
}

func (e *SelfPaymentError) Is(target error) bool { return target == ErrValidation }

// InvalidAmountError reports a non-positive amount or one above models.MaxAmount.
// Field names the offending input ("total_amount", "owed_amount", "amount").
type InvalidAmountError struct {
	Field  string
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	if e.Amount.GreaterThan(models.MaxAmount) {
		return fmt.Sprintf("%s must not exceed %s, got %s",
			e.Field, models.FormatMoney(models.MaxAmount), e.Amount.String())
	}
	return fmt.Sprintf("%s must be positive, got %s", e.Field, e.Amount.String())
}

func (e *InvalidAmountError) Is(target error) bool { return target == ErrValidation }

// DuplicateSplitError reports a user listed more than once in an expense's splits.
type DuplicateSplitError struct {
	UserID int64
}

func (e *DuplicateSplitError) Error() string {
	return fmt.Sprintf("user %d appears in more than one split", e.UserID)
}

func (e *DuplicateSplitError) Is(target error) bool { return target == ErrValidation }

// InvalidSplitTypeError reports an unknown split strategy tag.
type InvalidSplitTypeError struct {
	SplitType models.SplitType
}

func (e *InvalidSplitTypeError) Error() string {
	return fmt.Sprintf("unknown split type %q", string(e.SplitType))
}

func (e *InvalidSplitTypeError) Is(target error) bool { return target == ErrValidation }

// EmptySplitsError reports an expense submitted without any split.
type EmptySplitsError struct{}

func (e *EmptySplitsError) Error() string { return "an expense needs at least one split" }

func (e *EmptySplitsError) Is(target error) bool { return target == ErrValidation }

// MissingFieldError reports a required text field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return e.Field + " is required" }

func (e *MissingFieldError) Is(target error) bool { return target == ErrValidation }

// InvalidCurrencyError reports a currency that is not a three-letter code.
type InvalidCurrencyError struct {
	Currency string
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("currency %q must be a three-letter code", e.Currency)
}

func (e *InvalidCurrencyError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StoreError wraps a persistence failure. The write was rolled back in full,
// so retrying the whole operation is safe.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// storeErr wraps err as a StoreError unless it already carries a ledger kind.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
