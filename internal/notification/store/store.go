package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Emit persists the event. Satisfies the scheduler's notification sink.
func (s *Store) Emit(ctx context.Context, kind, title, message string, referenceID uuid.UUID) error {
	query := `
		INSERT INTO notifications (kind, title, message, reference_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, kind, title, message, referenceID); err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}

	return nil
}

// ListRecent returns the newest notifications, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*notification.Notification, error) {
	query := `
		SELECT n.id, n.kind, n.title, n.message, n.reference_id, n.created_at
		FROM notifications n
		ORDER BY n.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification

	for rows.Next() {
		var n notification.Notification

		if err := rows.Scan(&n.ID, &n.Kind, &n.Title, &n.Message, &n.ReferenceID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return notifications, nil
}
