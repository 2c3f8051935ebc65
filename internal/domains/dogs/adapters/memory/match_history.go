package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-portal/internal/shared/projection"
)

var _ ports.MatchHistory = (*MatchHistory)(nil)

// MatchHistory keeps match records in process memory for development and tests.
type MatchHistory struct {
	mu      sync.RWMutex
	records map[string]*ports.MatchProjection
	now     func() time.Time
}

// NewMatchHistory constructs an empty in-memory history.
func NewMatchHistory() *MatchHistory {
	return &MatchHistory{
		records: map[string]*ports.MatchProjection{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (h *MatchHistory) WithClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// Save stores a copy of record stamped with the current time.
func (h *MatchHistory) Save(_ context.Context, record *domain.MatchRecord) (*ports.MatchProjection, error) {
	if record == nil {
		return nil, domain.ErrEmptyMatch
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now().UTC()
	stored := cloneRecord(record)
	stored.CreatedAt = now
	proj := projection.New(stored, now, now)
	h.records[stored.ID] = proj
	return cloneProjection(proj), nil
}

// ListBySession returns the session's records, newest first.
func (h *MatchHistory) ListBySession(_ context.Context, sessionID string) ([]*ports.MatchProjection, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []*ports.MatchProjection
	for _, proj := range h.records {
		if proj.Entity.SessionID == sessionID {
			result = append(result, cloneProjection(proj))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Metadata.CreatedAt.After(result[j].Metadata.CreatedAt)
	})
	return result, nil
}

// PurgeOlderThan removes records created before cutoff.
func (h *MatchHistory) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var removed int64
	for id, proj := range h.records {
		if proj.Metadata.CreatedAt.Before(cutoff) {
			delete(h.records, id)
			removed++
		}
	}
	return removed, nil
}

func cloneRecord(record *domain.MatchRecord) *domain.MatchRecord {
	clone := *record
	clone.FavoriteIDs = append([]string{}, record.FavoriteIDs...)
	return &clone
}

func cloneProjection(proj *ports.MatchProjection) *ports.MatchProjection {
	return projection.New(cloneRecord(proj.Entity), proj.Metadata.CreatedAt, proj.Metadata.UpdatedAt)
}
