package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
)

// ErrNotFound is returned when no live session has the requested id.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps live portal sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	// PurgeIdle drops sessions not used since cutoff and returns them so the
	// caller can log them out upstream.
	PurgeIdle(ctx context.Context, cutoff time.Time) ([]*domain.Session, error)
}
