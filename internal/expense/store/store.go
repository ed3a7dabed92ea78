package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row in column order:
// id, property_id, amount, currency, category, description, date, created_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var description sql.NullString

	if err := s.Scan(
		&e.ID, &e.PropertyID, &e.Amount, &e.Currency, &e.Category,
		&description, &e.Date, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Description = description.String

	return &e, nil
}

const selectExpenseColumns = `
	e.id, e.property_id, e.amount, e.currency, e.category, e.description, e.date, e.created_at
`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (property_id, amount, currency, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.PropertyID,
		e.Amount,
		e.Currency,
		e.Category,
		e.Description,
		e.Date,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		WHERE e.id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND e.property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND e.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.date ASC, e.created_at ASC"

	return s.queryExpenses(ctx, query, args...)
}

// ListByPropertyAndRange returns expenses for one property inside [start, end].
func (s *Store) ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		WHERE e.property_id = $1 AND e.date >= $2 AND e.date <= $3
		ORDER BY e.date ASC, e.created_at ASC`

	return s.queryExpenses(ctx, query, propertyID, start, end)
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]*expense.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}
