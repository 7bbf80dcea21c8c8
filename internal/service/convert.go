package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: api.NewTime(u.CreatedAt),
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.User, len(g.Members))
	for i := range g.Members {
		members[i] = toAPIUser(&g.Members[i])
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		Members:     members,
		CreatedAt:   api.NewTime(g.CreatedAt),
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]*api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.Split{UserID: s.UserID, OwedAmount: models.FormatMoney(s.OwedAmount)}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		TotalAmount: models.FormatMoney(e.TotalAmount),
		Currency:    e.Currency,
		Category:    e.Category,
		SplitType:   string(e.SplitType),
		PaidByID:    e.PaidByID,
		CreatedByID: e.CreatedByID,
		Splits:      splits,
		CreatedAt:   api.NewTime(e.CreatedAt),
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		GroupID:   p.GroupID,
		Amount:    models.FormatMoney(p.Amount),
		Currency:  p.Currency,
		PaidByID:  p.PaidByID,
		PaidToID:  p.PaidToID,
		Notes:     p.Notes,
		CreatedAt: api.NewTime(p.CreatedAt),
	}
}

func toAPIBalance(b models.MemberBalance) *api.MemberBalance {
	return &api.MemberBalance{
		UserID:    b.UserID,
		Email:     b.Email,
		FullName:  b.FullName,
		TotalPaid: models.FormatMoney(b.TotalPaid),
		TotalOwed: models.FormatMoney(b.TotalOwed),
		SentPaid:  models.FormatMoney(b.SentPaid),
		Received:  models.FormatMoney(b.Received),
		Balance:   models.FormatMoney(b.Balance),
	}
}

func toAPISplits(splits []models.SplitInput) []*api.Split {
	out := make([]*api.Split, len(splits))
	for i, s := range splits {
		out[i] = &api.Split{UserID: s.UserID, OwedAmount: models.FormatMoney(s.OwedAmount)}
	}
	return out
}

// toAPICategories orders category totals by name.
func toAPICategories(summary map[string]decimal.Decimal) []*api.CategoryTotal {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*api.CategoryTotal, len(names))
	for i, name := range names {
		out[i] = &api.CategoryTotal{Category: name, Total: models.FormatMoney(summary[name])}
	}
	return out
}
