// Package matching attributes imported bank movements to tenants by
// learned reference patterns.
package matching

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	FindTenant(ctx context.Context, bankReference string) (uuid.UUID, error)
	CreateMapping(ctx context.Context, referencePattern string, tenantID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find the tenant behind a raw bank reference.
// Returns uuid.Nil if no pattern matches.
func (s *Service) Suggest(ctx context.Context, bankReference string) (uuid.UUID, error) {
	return s.repo.FindTenant(ctx, bankReference)
}

// Learn remembers that bank references containing the pattern belong to
// the given tenant.
func (s *Service) Learn(ctx context.Context, referencePattern string, tenantID uuid.UUID) error {
	return s.repo.CreateMapping(ctx, referencePattern, tenantID)
}
