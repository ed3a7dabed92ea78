package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Sink is anything that can receive an emitted notification.
type Sink interface {
	Emit(ctx context.Context, kind, title, message string, referenceID uuid.UUID) error
}

// Multi fans one notification out to several sinks. Every sink is
// attempted; errors are joined.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, kind, title, message string, referenceID uuid.UUID) error {
	var errs []error

	for _, sink := range m {
		if err := sink.Emit(ctx, kind, title, message, referenceID); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
