package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/payment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPayment reads a payment row in column order:
// id, property_id, tenant_id, amount, currency, date, reference, created_at
func scanPayment(s scanner) (*payment.Payment, error) {
	var p payment.Payment

	var reference sql.NullString

	if err := s.Scan(
		&p.ID, &p.PropertyID, &p.TenantID, &p.Amount, &p.Currency, &p.Date,
		&reference, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Reference = reference.String

	return &p, nil
}

const selectPaymentColumns = `
	p.id, p.property_id, p.tenant_id, p.amount, p.currency, p.date, p.reference, p.created_at
`

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (property_id, tenant_id, amount, currency, date, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.PropertyID,
		p.TenantID,
		p.Amount,
		p.Currency,
		p.Date,
		p.Reference,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		WHERE p.id = $1`

	p, err := scanPayment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND p.property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.TenantID != nil {
		query += fmt.Sprintf(" AND p.tenant_id = $%d", argIdx)

		args = append(args, *filter.TenantID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND p.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND p.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY p.date ASC, p.created_at ASC"

	return s.queryPayments(ctx, query, args...)
}

// ListByPropertyAndRange returns payments for one property inside [start, end],
// ordered by date then insertion so ledger tie-breaks stay reproducible.
func (s *Store) ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments p
		WHERE p.property_id = $1 AND p.date >= $2 AND p.date <= $3
		ORDER BY p.date ASC, p.created_at ASC`

	return s.queryPayments(ctx, query, propertyID, start, end)
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]*payment.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}
