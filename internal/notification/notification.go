// Package notification delivers and records fire-and-forget events
// produced by the billing scheduler.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a recorded event, shown to users by the UI layers
// outside this core.
type Notification struct {
	ID          uuid.UUID
	Kind        string
	Title       string
	Message     string
	ReferenceID uuid.UUID
	CreatedAt   time.Time
}
