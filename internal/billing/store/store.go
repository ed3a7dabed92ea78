package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/billing"
	"github.com/jmcortes/habita/internal/recurrence"
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

// scanDefinition reads a definition row in column order:
// id, subject_id, subject_kind, property_id, periodicity, generation_day,
// amount, currency, active, next_generation_date, created_at
func scanDefinition(s scanner) (*billing.Definition, error) {
	var def billing.Definition

	var kindStr, periodicityStr string

	if err := s.Scan(
		&def.ID, &def.SubjectID, &kindStr, &def.PropertyID, &periodicityStr,
		&def.GenerationDay, &def.Amount, &def.Currency, &def.Active,
		&def.NextGeneration, &def.CreatedAt,
	); err != nil {
		return nil, err
	}

	def.SubjectKind = billing.SubjectKind(kindStr)
	def.Periodicity = recurrence.Periodicity(periodicityStr)

	return &def, nil
}

const selectDefinitionColumns = `
	d.id, d.subject_id, d.subject_kind, d.property_id, d.periodicity, d.generation_day,
	d.amount, d.currency, d.active, d.next_generation_date, d.created_at
`

func (s *Store) CreateDefinition(ctx context.Context, def *billing.Definition) error {
	query := `
		INSERT INTO billing_definitions (
			subject_id, subject_kind, property_id, periodicity, generation_day,
			amount, currency, active, next_generation_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		def.SubjectID,
		string(def.SubjectKind),
		def.PropertyID,
		string(def.Periodicity),
		def.GenerationDay,
		def.Amount,
		def.Currency,
		def.Active,
		def.NextGeneration,
	).Scan(&def.ID, &def.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating billing definition: %w", err)
	}

	return nil
}

func (s *Store) GetDefinition(ctx context.Context, id uuid.UUID) (*billing.Definition, error) {
	query := `SELECT ` + selectDefinitionColumns + `
		FROM billing_definitions d
		WHERE d.id = $1`

	def, err := scanDefinition(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, billing.ErrNotFound
		}

		return nil, fmt.Errorf("getting billing definition: %w", err)
	}

	return def, nil
}

func (s *Store) ListDefinitions(ctx context.Context, filter billing.ListFilter) ([]*billing.Definition, error) {
	query := `SELECT ` + selectDefinitionColumns + `
		FROM billing_definitions d
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND d.property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.SubjectID != nil {
		query += fmt.Sprintf(" AND d.subject_id = $%d", argIdx)

		args = append(args, *filter.SubjectID)
		argIdx++
	}

	if filter.SubjectKind != nil {
		query += fmt.Sprintf(" AND d.subject_kind = $%d", argIdx)

		args = append(args, string(*filter.SubjectKind))
		argIdx++
	}

	if filter.Active != nil {
		query += fmt.Sprintf(" AND d.active = $%d", argIdx)

		args = append(args, *filter.Active)
		argIdx++
	}

	query += " ORDER BY d.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing billing definitions: %w", err)
	}
	defer rows.Close()

	var defs []*billing.Definition

	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning billing definition: %w", err)
		}

		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating billing definitions: %w", err)
	}

	return defs, nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE billing_definitions SET active = $2 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("toggling billing definition: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return billing.ErrNotFound
	}

	return nil
}

func (s *Store) ListActiveDue(ctx context.Context, before time.Time) ([]*billing.Definition, error) {
	query := `SELECT ` + selectDefinitionColumns + `
		FROM billing_definitions d
		WHERE d.active = TRUE AND d.flagged_at IS NULL AND d.next_generation_date <= $1
		ORDER BY d.next_generation_date ASC`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("listing due definitions: %w", err)
	}
	defer rows.Close()

	var defs []*billing.Definition

	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning due definition: %w", err)
		}

		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating due definitions: %w", err)
	}

	return defs, nil
}

// ClaimAndAdvance is the idempotence guard for invoice generation: the
// conditional update only succeeds while next_generation_date still holds
// the expected due date, so exactly one run wins each occurrence.
func (s *Store) ClaimAndAdvance(ctx context.Context, id uuid.UUID, expectedDue, next time.Time) (bool, error) {
	query := `
		UPDATE billing_definitions
		SET next_generation_date = $3
		WHERE id = $1 AND active = TRUE AND next_generation_date = $2
	`

	res, err := s.db.ExecContext(ctx, query, id, expectedDue, next)
	if err != nil {
		return false, fmt.Errorf("claiming billing definition: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming billing definition: %w", err)
	}

	return n == 1, nil
}

func (s *Store) ResetNextDate(ctx context.Context, id uuid.UUID, next time.Time) error {
	query := `UPDATE billing_definitions SET next_generation_date = $2 WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id, next); err != nil {
		return fmt.Errorf("resetting next generation date: %w", err)
	}

	return nil
}

// FlagForReview parks a definition: flagged definitions are excluded from
// due listings until someone clears the flag.
func (s *Store) FlagForReview(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE billing_definitions SET flagged_at = NOW(), flag_reason = $2 WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id, reason); err != nil {
		return fmt.Errorf("flagging billing definition: %w", err)
	}

	return nil
}
