package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindTenant(ctx context.Context, bankReference string) (uuid.UUID, error) {
	// Longest pattern wins so "RENT APT 12B" beats "RENT".
	query := `
		SELECT tenant_id
		FROM tenant_reference_mappings
		WHERE $1 ILIKE '%' || reference_pattern || '%'
		ORDER BY LENGTH(reference_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var tenantID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, bankReference).Scan(&tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, nil
		}

		return uuid.Nil, fmt.Errorf("finding tenant match: %w", err)
	}

	return tenantID, nil
}

func (s *Store) CreateMapping(ctx context.Context, referencePattern string, tenantID uuid.UUID) error {
	query := `
		INSERT INTO tenant_reference_mappings (reference_pattern, tenant_id, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, referencePattern, tenantID)
	if err != nil {
		return fmt.Errorf("creating tenant mapping: %w", err)
	}

	return nil
}
