package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitsmart/internal/models"
)

const expenseColumns = `id, group_id, description, total_cents, currency, category, split_type,
	paid_by_id, created_by_id, created_at`

// CreateExpense persists an expense and its splits in a single transaction.
// The expense ID comes from the table's AUTOINCREMENT counter; no in-process
// lock is taken, so concurrent writers only contend inside SQLite.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	totalCents, err := models.ToCents(expense.TotalAmount)
	if err != nil {
		return fmt.Errorf("invalid expense total: %w", err)
	}
	splitCents := make([]int64, len(expense.Splits))
	for i, split := range expense.Splits {
		if splitCents[i], err = models.ToCents(split.OwedAmount); err != nil {
			return fmt.Errorf("invalid split for user %d: %w", split.UserID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (group_id, description, total_cents, currency, category, split_type,
			paid_by_id, created_by_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.GroupID, expense.Description, totalCents, expense.Currency,
		expense.Category, string(expense.SplitType), expense.PaidByID, expense.CreatedByID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	expenseID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		res, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, owed_cents) VALUES (?, ?, ?)",
			expenseID, split.UserID, splitCents[i],
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
		splitID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read split id: %w", err)
		}
		split.ID = splitID
		split.ExpenseID = expenseID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	expense.ID = expenseID
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID int64) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if isNoRows(err) {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := listSplits(ctx, s.db, "es.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]

	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group in creation order.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, groupID)
}

func listExpenses(ctx context.Context, q DBTX, groupID int64) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splits, err := listSplits(ctx, q, "e.group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.Splits = splits[expense.ID]
	}

	return expenses, nil
}

// listSplits loads splits matching where, keyed by expense ID and ordered by user ID.
func listSplits(ctx context.Context, q DBTX, where string, arg any) (map[int64][]models.ExpenseSplit, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT es.id, es.expense_id, es.user_id, es.owed_cents
		 FROM expense_splits es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE `+where+`
		 ORDER BY es.expense_id, es.user_id`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[int64][]models.ExpenseSplit)
	for rows.Next() {
		var split models.ExpenseSplit
		var owedCents int64
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &owedCents); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		split.OwedAmount = models.FromCents(owedCents)
		splits[split.ExpenseID] = append(splits[split.ExpenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return splits, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var totalCents int64
	var splitType string
	if err := row.Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&totalCents,
		&expense.Currency,
		&expense.Category,
		&splitType,
		&expense.PaidByID,
		&expense.CreatedByID,
		&expense.CreatedAt,
	); err != nil {
		return nil, err
	}
	expense.TotalAmount = models.FromCents(totalCents)
	expense.SplitType = models.SplitType(splitType)
	return expense, nil
}
