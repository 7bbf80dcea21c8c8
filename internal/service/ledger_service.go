package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/ledger"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/pkg/api"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger *ledger.Ledger
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService backed by the ledger.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateExpense records an expense created by the caller.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"total", req.Msg.TotalAmount,
		"splits", len(req.Msg.Splits),
	)

	total, err := parseAmount("totalAmount", req.Msg.TotalAmount)
	if err != nil {
		return nil, err
	}
	splits := make([]models.SplitInput, len(req.Msg.Splits))
	for i, sp := range req.Msg.Splits {
		owed, err := parseAmount(fmt.Sprintf("splits[%d].owedAmount", i), sp.OwedAmount)
		if err != nil {
			return nil, err
		}
		splits[i] = models.SplitInput{UserID: sp.UserID, OwedAmount: owed}
	}

	payerID := req.Msg.PaidByID
	if payerID == 0 {
		payerID = userID
	}

	expense, err := s.ledger.CreateExpense(ctx, models.NewExpense{
		GroupID:     req.Msg.GroupID,
		CreatorID:   userID,
		PayerID:     payerID,
		Description: req.Msg.Description,
		TotalAmount: total,
		Currency:    req.Msg.Currency,
		Category:    req.Msg.Category,
		SplitType:   models.SplitType(req.Msg.SplitType),
		Splits:      splits,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// RecordPayment records a payment from the caller to another member.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "RecordPayment request received",
		"group_id", req.Msg.GroupID,
		"paid_to_id", req.Msg.PaidToID,
		"amount", req.Msg.Amount,
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	payment, err := s.ledger.RecordPayment(ctx, models.NewPayment{
		GroupID:  req.Msg.GroupID,
		PayerID:  userID,
		PaidToID: req.Msg.PaidToID,
		Amount:   amount,
		Currency: req.Msg.Currency,
		Notes:    req.Msg.Notes,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListExpenses returns a group's expenses in creation order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := s.authorize(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// ListPayments returns a group's payments in creation order.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	if err := s.authorize(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	payments, err := s.ledger.ListPayments(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// ComputeBalances returns every member's balance, ordered by user ID.
func (s *LedgerService) ComputeBalances(ctx context.Context, req *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error) {
	if err := s.authorize(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	balances, err := s.ledger.ComputeBalances(ctx, req.Msg.GroupID)
	if err != nil {
		slog.ErrorContext(ctx, "ComputeBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = toAPIBalance(b)
	}
	return connect.NewResponse(&api.ComputeBalancesResponse{Balances: out}), nil
}

// SuggestSettlements returns payments that would settle the group.
func (s *LedgerService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	if err := s.authorize(ctx, req.Msg.GroupID); err != nil {
		return nil, err
	}

	edges, err := s.ledger.SuggestSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(edges))
	for i, e := range edges {
		out[i] = &api.Settlement{
			FromUserID: e.FromUserID,
			ToUserID:   e.ToUserID,
			Amount:     models.FormatMoney(e.Amount),
		}
	}
	return connect.NewResponse(&api.SuggestSettlementsResponse{Settlements: out}), nil
}

// SpendingSummary returns the caller's owed totals per category.
func (s *LedgerService) SpendingSummary(ctx context.Context, req *connect.Request[api.SpendingSummaryRequest]) (*connect.Response[api.SpendingSummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.SpendingSummary(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SpendingSummaryResponse{Categories: toAPICategories(summary)}), nil
}

// CalculateSplit computes candidate splits for a bill. Nothing is recorded.
func (s *LedgerService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	total, err := parseAmount("totalAmount", req.Msg.TotalAmount)
	if err != nil {
		return nil, err
	}

	var splits []models.SplitInput
	switch models.SplitType(req.Msg.SplitType) {
	case models.SplitEqually, "":
		splits, err = calculator.SplitEqually(total, req.Msg.Participants)

	case models.SplitByPercentage:
		percentages := make(map[int64]decimal.Decimal, len(req.Msg.Weights))
		for _, w := range req.Msg.Weights {
			pct, err := parseAmount("weights.value", w.Value)
			if err != nil {
				return nil, err
			}
			percentages[w.UserID] = pct
		}
		splits, err = calculator.SplitByPercentage(total, percentages)

	case models.SplitByShares:
		shares := make(map[int64]int64, len(req.Msg.Weights))
		for _, w := range req.Msg.Weights {
			n, err := parseAmount("weights.value", w.Value)
			if err != nil {
				return nil, err
			}
			if !n.IsInteger() || !n.IsPositive() {
				return nil, connect.NewError(connect.CodeInvalidArgument,
					fmt.Errorf("shares for user %d must be a positive whole number", w.UserID))
			}
			shares[w.UserID] = n.IntPart()
		}
		splits, err = calculator.SplitByShares(total, shares)

	case models.SplitByItem:
		items := make([]calculator.Item, len(req.Msg.Items))
		for i, it := range req.Msg.Items {
			amount, err := parseAmount(fmt.Sprintf("items[%d].amount", i), it.Amount)
			if err != nil {
				return nil, err
			}
			slog.DebugContext(ctx, "Processing item",
				"index", i+1,
				"description", it.Description,
				"amount", it.Amount,
				"participants", it.AssignedTo,
			)
			items[i] = calculator.Item{Description: it.Description, Amount: amount, AssignedTo: it.AssignedTo}
		}
		splits, err = calculator.SplitByItems(total, items)

	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("unknown split type %q", req.Msg.SplitType))
	}
	if err != nil {
		slog.WarnContext(ctx, "CalculateSplit failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return connect.NewResponse(&api.CalculateSplitResponse{Splits: toAPISplits(splits)}), nil
}

// authorize checks that the caller belongs to the group.
func (s *LedgerService) authorize(ctx context.Context, groupID int64) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ledger.Authorize(ctx, groupID, userID); err != nil {
		return toConnectError(err)
	}
	return nil
}
