package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/ledger"
	"github.com/mmynk/splitsmart/internal/middleware"
)

// toConnectError maps ledger error kinds to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var notMember *ledger.NotAMemberError
	if errors.As(err, &notMember) && notMember.Acting() {
		return connect.NewError(connect.CodePermissionDenied, err)
	}

	switch {
	case errors.Is(err, ledger.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrStore):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// callerID returns the authenticated user set by the auth interceptor.
func callerID(ctx context.Context) (int64, error) {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return 0, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// parseAmount parses a decimal string from a request field.
func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%s: invalid amount %q", field, value))
	}
	return d, nil
}
