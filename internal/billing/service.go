package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/recurrence"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=billing
type Repository interface {
	CreateDefinition(ctx context.Context, def *Definition) error
	GetDefinition(ctx context.Context, id uuid.UUID) (*Definition, error)
	ListDefinitions(ctx context.Context, filter ListFilter) ([]*Definition, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// ListActiveDue returns active definitions with next_generation_date <= before.
	ListActiveDue(ctx context.Context, before time.Time) ([]*Definition, error)

	// ClaimAndAdvance atomically moves the definition's next generation date
	// from expectedDue to next. It returns false when expectedDue no longer
	// matches, meaning another run already claimed this occurrence.
	ClaimAndAdvance(ctx context.Context, id uuid.UUID, expectedDue, next time.Time) (bool, error)

	// ResetNextDate restores the schedule after a failed generation so the
	// same occurrence is retried on the next run.
	ResetNextDate(ctx context.Context, id uuid.UUID, next time.Time) error

	// FlagForReview parks a definition for manual attention instead of
	// letting it be skipped silently forever.
	FlagForReview(ctx context.Context, id uuid.UUID, reason string) error
}

// Service manages recurring billing definitions.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type ListFilter struct {
	PropertyID  *uuid.UUID
	SubjectID   *uuid.UUID
	SubjectKind *SubjectKind
	Active      *bool
}

// Create validates the configuration and stores the definition with its
// first generation date already computed.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Definition, error) {
	periodicity, err := params.Validate()
	if err != nil {
		return nil, err
	}

	now := s.now()

	def := &Definition{
		SubjectID:      params.SubjectID,
		SubjectKind:    params.SubjectKind,
		PropertyID:     params.PropertyID,
		Periodicity:    periodicity,
		GenerationDay:  params.GenerationDay,
		Amount:         params.Amount,
		Currency:       params.Currency,
		Active:         true,
		NextGeneration: recurrence.NextOccurrence(periodicity, params.GenerationDay, now),
	}
	if err := s.repo.CreateDefinition(ctx, def); err != nil {
		return nil, err
	}

	return def, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Definition, error) {
	return s.repo.GetDefinition(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Definition, error) {
	return s.repo.ListDefinitions(ctx, filter)
}

// SetActive toggles a definition. Disabling is the supported way to stop
// billing; definitions are never hard-deleted.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
