package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitsmart/internal/models"
)

const paymentColumns = "id, group_id, amount_cents, currency, paid_by_id, paid_to_id, notes, created_at"

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	amountCents, err := models.ToCents(payment.Amount)
	if err != nil {
		return fmt.Errorf("invalid payment amount: %w", err)
	}

	var notes interface{} = nil
	if payment.Notes != "" {
		notes = payment.Notes
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (group_id, amount_cents, currency, paid_by_id, paid_to_id, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.GroupID, amountCents, payment.Currency,
		payment.PaidByID, payment.PaidToID, notes, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read payment id: %w", err)
	}
	payment.ID = id

	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	payment, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?",
		paymentID,
	))
	if isNoRows(err) {
		return nil, notFound("payment", paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByGroup retrieves all payments of a group in creation order.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID int64) ([]*models.Payment, error) {
	return listPayments(ctx, s.db, groupID)
}

func listPayments(ctx context.Context, q DBTX, groupID int64) ([]*models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE group_id = ? ORDER BY id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by group: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var amountCents int64
	var notes sql.NullString
	if err := row.Scan(
		&payment.ID,
		&payment.GroupID,
		&amountCents,
		&payment.Currency,
		&payment.PaidByID,
		&payment.PaidToID,
		&notes,
		&payment.CreatedAt,
	); err != nil {
		return nil, err
	}
	payment.Amount = models.FromCents(amountCents)
	if notes.Valid {
		payment.Notes = notes.String
	}
	return payment, nil
}
