package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/billing"
	"github.com/jmcortes/habita/internal/invoice"
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

// scanInvoice reads an invoice row in column order:
// id, number, definition_id, subject_id, subject_kind, property_id,
// issue_date, due_date, amount, late_fee, amount_in_words, currency,
// status, created_at
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.DefinitionID, &inv.SubjectID, &inv.SubjectKind,
		&inv.PropertyID, &inv.IssueDate, &inv.DueDate, &inv.Amount, &inv.LateFee,
		&inv.AmountInWords, &inv.Currency, &statusStr, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)

	return &inv, nil
}

const selectInvoiceColumns = `
	i.id, i.number, i.definition_id, i.subject_id, i.subject_kind, i.property_id,
	i.issue_date, i.due_date, i.amount, i.late_fee, i.amount_in_words, i.currency,
	i.status, i.created_at
`

// CreateFromDefinition materializes a new issued invoice for a due
// definition. The invoice number is assigned from a per-database sequence
// so concurrent scheduler runs never collide.
func (s *Store) CreateFromDefinition(ctx context.Context, def *billing.Definition, amountInWords string) (*invoice.Invoice, error) {
	query := `
		INSERT INTO invoices (
			number, definition_id, subject_id, subject_kind, property_id,
			issue_date, due_date, amount, late_fee, amount_in_words, currency, status, created_at
		)
		VALUES (
			'INV-' || to_char(NOW(), 'YYYY') || '-' || lpad(nextval('invoice_numbers')::text, 6, '0'),
			$1, $2, $3, $4, NOW()::date, $5, $6, 0, $7, $8, $9, NOW()
		)
		RETURNING id, number, issue_date, created_at
	`

	inv := &invoice.Invoice{
		DefinitionID:  def.ID,
		SubjectID:     def.SubjectID,
		SubjectKind:   string(def.SubjectKind),
		PropertyID:    def.PropertyID,
		DueDate:       def.NextGeneration,
		Amount:        def.Amount,
		AmountInWords: amountInWords,
		Currency:      def.Currency,
		Status:        invoice.StatusIssued,
	}

	err := s.db.QueryRowContext(ctx, query,
		def.ID,
		def.SubjectID,
		string(def.SubjectKind),
		def.PropertyID,
		def.NextGeneration,
		def.Amount,
		amountInWords,
		def.Currency,
		invoice.StatusIssued,
	).Scan(&inv.ID, &inv.Number, &inv.IssueDate, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating invoice for definition %s: %w", def.ID, err)
	}

	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND i.property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.SubjectID != nil {
		query += fmt.Sprintf(" AND i.subject_id = $%d", argIdx)

		args = append(args, *filter.SubjectID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY i.issue_date DESC, i.number DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}
