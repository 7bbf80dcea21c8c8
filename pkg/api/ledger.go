package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "splitsmart.v1.LedgerService"

	LedgerServiceCreateExpenseProcedure      = "/splitsmart.v1.LedgerService/CreateExpense"
	LedgerServiceRecordPaymentProcedure      = "/splitsmart.v1.LedgerService/RecordPayment"
	LedgerServiceListExpensesProcedure       = "/splitsmart.v1.LedgerService/ListExpenses"
	LedgerServiceListPaymentsProcedure       = "/splitsmart.v1.LedgerService/ListPayments"
	LedgerServiceComputeBalancesProcedure    = "/splitsmart.v1.LedgerService/ComputeBalances"
	LedgerServiceSuggestSettlementsProcedure = "/splitsmart.v1.LedgerService/SuggestSettlements"
	LedgerServiceSpendingSummaryProcedure    = "/splitsmart.v1.LedgerService/SpendingSummary"
	LedgerServiceCalculateSplitProcedure     = "/splitsmart.v1.LedgerService/CalculateSplit"
)

// Split is one member's share of an expense. OwedAmount is a decimal string.
type Split struct {
	UserID     int64  `json:"userId"`
	OwedAmount string `json:"owedAmount"`
}

type Expense struct {
	ID          int64    `json:"id"`
	GroupID     int64    `json:"groupId"`
	Description string   `json:"description"`
	TotalAmount string   `json:"totalAmount"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category,omitempty"`
	SplitType   string   `json:"splitType"`
	PaidByID    int64    `json:"paidById"`
	CreatedByID int64    `json:"createdById"`
	Splits      []*Split `json:"splits"`
	CreatedAt   Time     `json:"createdAt"`
}

type Payment struct {
	ID        int64  `json:"id"`
	GroupID   int64  `json:"groupId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	PaidByID  int64  `json:"paidById"`
	PaidToID  int64  `json:"paidToId"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt Time   `json:"createdAt"`
}

// MemberBalance is a member's net position. Positive means the group owes
// the member; negative means the member owes the group.
type MemberBalance struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	FullName  string `json:"fullName,omitempty"`
	TotalPaid string `json:"totalPaid"`
	TotalOwed string `json:"totalOwed"`
	SentPaid  string `json:"sentPaid"`
	Received  string `json:"received"`
	Balance   string `json:"balance"`
}

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	FromUserID int64  `json:"fromUserId"`
	ToUserID   int64  `json:"toUserId"`
	Amount     string `json:"amount"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// CreateExpenseRequest records an expense created by the caller. PaidByID
// defaults to the caller when zero.
type CreateExpenseRequest struct {
	GroupID     int64    `json:"groupId"`
	PaidByID    int64    `json:"paidById,omitempty"`
	Description string   `json:"description"`
	TotalAmount string   `json:"totalAmount"`
	Currency    string   `json:"currency,omitempty"`
	Category    string   `json:"category,omitempty"`
	SplitType   string   `json:"splitType,omitempty"`
	Splits      []*Split `json:"splits"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// RecordPaymentRequest records a payment sent by the caller to PaidToID.
type RecordPaymentRequest struct {
	GroupID  int64  `json:"groupId"`
	PaidToID int64  `json:"paidToId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListExpensesRequest struct {
	GroupID int64 `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type ListPaymentsRequest struct {
	GroupID int64 `json:"groupId"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type ComputeBalancesRequest struct {
	GroupID int64 `json:"groupId"`
}

type ComputeBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

type SuggestSettlementsRequest struct {
	GroupID int64 `json:"groupId"`
}

type SuggestSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// SpendingSummaryRequest summarizes the caller's spending across all groups.
type SpendingSummaryRequest struct{}

type SpendingSummaryResponse struct {
	Categories []*CategoryTotal `json:"categories"`
}

// Weight is a per-user percentage or share count, as a decimal string.
type Weight struct {
	UserID int64  `json:"userId"`
	Value  string `json:"value"`
}

// Item is a bill line shared equally by AssignedTo.
type Item struct {
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	AssignedTo  []int64 `json:"assignedTo"`
}

// CalculateSplitRequest computes candidate splits without recording anything.
// Participants is used by "equally", Weights by "by_percentage" and
// "by_shares", Items by "by_item".
type CalculateSplitRequest struct {
	TotalAmount  string    `json:"totalAmount"`
	SplitType    string    `json:"splitType"`
	Participants []int64   `json:"participants,omitempty"`
	Weights      []*Weight `json:"weights,omitempty"`
	Items        []*Item   `json:"items,omitempty"`
}

type CalculateSplitResponse struct {
	Splits []*Split `json:"splits"`
}

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	ComputeBalances(context.Context, *connect.Request[ComputeBalancesRequest]) (*connect.Response[ComputeBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error)
	SpendingSummary(context.Context, *connect.Request[SpendingSummaryRequest]) (*connect.Response[SpendingSummaryResponse], error)
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opt := handlerOptions(opts)
	return "/" + LedgerServiceName + "/", router{
		LedgerServiceCreateExpenseProcedure:      connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opt),
		LedgerServiceRecordPaymentProcedure:      connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opt),
		LedgerServiceListExpensesProcedure:       connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opt),
		LedgerServiceListPaymentsProcedure:       connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opt),
		LedgerServiceComputeBalancesProcedure:    connect.NewUnaryHandler(LedgerServiceComputeBalancesProcedure, svc.ComputeBalances, opt),
		LedgerServiceSuggestSettlementsProcedure: connect.NewUnaryHandler(LedgerServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opt),
		LedgerServiceSpendingSummaryProcedure:    connect.NewUnaryHandler(LedgerServiceSpendingSummaryProcedure, svc.SpendingSummary, opt),
		LedgerServiceCalculateSplitProcedure:     connect.NewUnaryHandler(LedgerServiceCalculateSplitProcedure, svc.CalculateSplit, opt),
	}
}

// LedgerServiceClient is a client for the LedgerService service.
type LedgerServiceClient struct {
	createExpense      *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	recordPayment      *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listExpenses       *connect.Client[ListExpensesRequest, ListExpensesResponse]
	listPayments       *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	computeBalances    *connect.Client[ComputeBalancesRequest, ComputeBalancesResponse]
	suggestSettlements *connect.Client[SuggestSettlementsRequest, SuggestSettlementsResponse]
	spendingSummary    *connect.Client[SpendingSummaryRequest, SpendingSummaryResponse]
	calculateSplit     *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opt := clientOptions(opts)
	return &LedgerServiceClient{
		createExpense:      connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, procedureURL(baseURL, LedgerServiceCreateExpenseProcedure), opt),
		recordPayment:      connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, procedureURL(baseURL, LedgerServiceRecordPaymentProcedure), opt),
		listExpenses:       connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, procedureURL(baseURL, LedgerServiceListExpensesProcedure), opt),
		listPayments:       connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, procedureURL(baseURL, LedgerServiceListPaymentsProcedure), opt),
		computeBalances:    connect.NewClient[ComputeBalancesRequest, ComputeBalancesResponse](httpClient, procedureURL(baseURL, LedgerServiceComputeBalancesProcedure), opt),
		suggestSettlements: connect.NewClient[SuggestSettlementsRequest, SuggestSettlementsResponse](httpClient, procedureURL(baseURL, LedgerServiceSuggestSettlementsProcedure), opt),
		spendingSummary:    connect.NewClient[SpendingSummaryRequest, SpendingSummaryResponse](httpClient, procedureURL(baseURL, LedgerServiceSpendingSummaryProcedure), opt),
		calculateSplit:     connect.NewClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, procedureURL(baseURL, LedgerServiceCalculateSplitProcedure), opt),
	}
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ComputeBalances(ctx context.Context, req *connect.Request[ComputeBalancesRequest]) (*connect.Response[ComputeBalancesResponse], error) {
	return c.computeBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SpendingSummary(ctx context.Context, req *connect.Request[SpendingSummaryRequest]) (*connect.Response[SpendingSummaryResponse], error) {
	return c.spendingSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}
