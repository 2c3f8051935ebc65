package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/shared/projection"
)

// MatchProjection is a stored match record plus persistence metadata.
type MatchProjection = projection.Projection[*domain.MatchRecord]

// MatchHistory persists the outcome of match requests.
type MatchHistory interface {
	Save(ctx context.Context, record *domain.MatchRecord) (*MatchProjection, error)
	ListBySession(ctx context.Context, sessionID string) ([]*MatchProjection, error)
	// PurgeOlderThan deletes records created before cutoff and reports how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NoopMatchHistory discards records; used when history is disabled.
var NoopMatchHistory MatchHistory = noopMatchHistory{}

type noopMatchHistory struct{}

func (noopMatchHistory) Save(_ context.Context, record *domain.MatchRecord) (*MatchProjection, error) {
	return &MatchProjection{Entity: record}, nil
}

func (noopMatchHistory) ListBySession(_ context.Context, _ string) ([]*MatchProjection, error) {
	return nil, nil
}

func (noopMatchHistory) PurgeOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
