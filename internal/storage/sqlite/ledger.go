package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

// LoadGroupLedger reads a group's complete history inside one transaction so
// that an expense is always seen with its full split set, and the members,
// expenses and payments all come from the same committed state.
func (s *SQLiteStore) LoadGroupLedger(ctx context.Context, groupID int64) (*models.GroupLedger, error) {
	ledger := &models.GroupLedger{}

	err := s.withTx(ctx, func(ctx context.Context, tx DBTX) error {
		group, err := getGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		expenses, err := listExpenses(ctx, tx, groupID)
		if err != nil {
			return err
		}
		payments, err := listPayments(ctx, tx, groupID)
		if err != nil {
			return err
		}

		ledger.Group = group
		ledger.Expenses = expenses
		ledger.Payments = payments
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

// SpendingByCategory sums the user's owed split amounts per expense category
// across every group. Expenses without a category are reported under
// models.UncategorizedCategory.
func (s *SQLiteStore) SpendingByCategory(ctx context.Context, userID int64) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.category, SUM(es.owed_cents)
		 FROM expense_splits es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE es.user_id = ?
		 GROUP BY e.category
		 ORDER BY e.category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize spending: %w", err)
	}
	defer rows.Close()

	summary := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var cents int64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}
		if category == "" {
			category = models.UncategorizedCategory
		}
		summary[category] = summary[category].Add(models.FromCents(cents))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spending rows: %w", err)
	}

	return summary, nil
}
