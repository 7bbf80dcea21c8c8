package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

// ComputeBalances derives every current member's net position from the full
// history of a group. It returns one entry per member, ordered by user ID.
//
// Algorithm, for each member u:
//   - total_paid: Σ expense totals where u paid
//   - total_owed: Σ split amounts assigned to u
//   - sent/received: Σ payments u sent / received
//   - balance = (total_paid - total_owed) + (sent - received)
//
// A payment moves the payer toward being owed and the payee toward owing,
// so recorded settlements pull both balances toward zero. Every expense adds
// its total once and its splits (which sum to the total) once, and every
// payment adds and subtracts the same amount, so balances always sum to zero.
// No rounding happens here; callers format at the output boundary.
func ComputeBalances(ledger *models.GroupLedger) []models.MemberBalance {
	balances := make(map[int64]*models.MemberBalance, len(ledger.Group.Members))
	for _, m := range ledger.Group.Members {
		balances[m.ID] = &models.MemberBalance{
			UserID:    m.ID,
			Email:     m.Email,
			FullName:  m.FullName,
			TotalPaid: decimal.Zero,
			TotalOwed: decimal.Zero,
			SentPaid:  decimal.Zero,
			Received:  decimal.Zero,
		}
	}

	for _, exp := range ledger.Expenses {
		if bal, ok := balances[exp.PaidByID]; ok {
			bal.TotalPaid = bal.TotalPaid.Add(exp.TotalAmount)
		}
		for _, split := range exp.Splits {
			if bal, ok := balances[split.UserID]; ok {
				bal.TotalOwed = bal.TotalOwed.Add(split.OwedAmount)
			}
		}
	}

	for _, p := range ledger.Payments {
		if bal, ok := balances[p.PaidByID]; ok {
			bal.SentPaid = bal.SentPaid.Add(p.Amount)
		}
		if bal, ok := balances[p.PaidToID]; ok {
			bal.Received = bal.Received.Add(p.Amount)
		}
	}

	result := make([]models.MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.Balance = bal.TotalPaid.Sub(bal.TotalOwed).Add(bal.SentPaid.Sub(bal.Received))
		result = append(result, *bal)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })

	return result
}

// SimplifyDebts turns net balances into a short list of suggested transfers.
//
// Greedy matching: the largest debtor pays the largest creditor as much as
// either side allows, and the loop continues until every balance is settled.
// The result has at most n-1 edges for n members with nonzero balances.
func SimplifyDebts(balances []models.MemberBalance) []models.DebtEdge {
	type party struct {
		userID int64
		amount decimal.Decimal
	}

	var creditors, debtors []party
	for _, bal := range balances {
		switch {
		case bal.Balance.IsPositive():
			creditors = append(creditors, party{bal.UserID, bal.Balance})
		case bal.Balance.IsNegative():
			debtors = append(debtors, party{bal.UserID, bal.Balance.Neg()})
		}
	}

	byAmount := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if c := ps[i].amount.Cmp(ps[j].amount); c != 0 {
				return c > 0
			}
			return ps[i].userID < ps[j].userID
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []models.DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.IsPositive() {
			edges = append(edges, models.DebtEdge{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if !debtors[i].amount.IsPositive() {
			i++
		}
		if !creditors[j].amount.IsPositive() {
			j++
		}
	}

	return edges
}
