package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	cents, err := ToCents(decimal.RequireFromString("12.345"))
	require.NoError(t, err)
	assert.Equal(t, int64(1235), cents)

	cents, err = ToCents(decimal.RequireFromString("-0.005"))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), cents)

	cents, err = ToCents(MaxAmount)
	require.NoError(t, err)
	assert.Equal(t, MaxCents, cents)
	assert.Equal(t, "10000000000000.00", FormatMoney(FromCents(cents)))
}

func TestToCentsRejectsOverflow(t *testing.T) {
	for _, amount := range []string{"100000000000000000000", "-100000000000000000000", "10000000000000.01"} {
		_, err := ToCents(decimal.RequireFromString(amount))
		assert.ErrorIs(t, err, ErrAmountOutOfRange, amount)
	}
}
