package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-portal/internal/shared/projection"
)

var _ ports.MatchHistory = (*MatchHistory)(nil)

// MatchHistory persists match outcomes in PostgreSQL.
type MatchHistory struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMatchHistory wires a PostgreSQL-backed match history.
func NewMatchHistory(db *gorm.DB) *MatchHistory {
	return &MatchHistory{db: db, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (h *MatchHistory) WithClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// Save inserts a new record.
func (h *MatchHistory) Save(ctx context.Context, record *domain.MatchRecord) (*ports.MatchProjection, error) {
	if err := h.ensureDB(); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrEmptyMatch
	}
	now := h.now().UTC()
	row := toMatchRow(record)
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := h.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return toProjection(&row), nil
}

// ListBySession returns the session's records, newest first.
func (h *MatchHistory) ListBySession(ctx context.Context, sessionID string) ([]*ports.MatchProjection, error) {
	if err := h.ensureDB(); err != nil {
		return nil, err
	}
	var rows []matchRow
	if err := h.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*ports.MatchProjection, 0, len(rows))
	for i := range rows {
		result = append(result, toProjection(&rows[i]))
	}
	return result, nil
}

// PurgeOlderThan deletes records created before cutoff.
func (h *MatchHistory) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := h.ensureDB(); err != nil {
		return 0, err
	}
	res := h.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&matchRow{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (h *MatchHistory) ensureDB() error {
	if h == nil || h.db == nil {
		return errors.New("postgres match history not configured")
	}
	return nil
}

type matchRow struct {
	ID           string         `gorm:"primaryKey;column:id;size:36"`
	SessionID    string         `gorm:"column:session_id;size:36;index"`
	FavoriteIDs  pq.StringArray `gorm:"column:favorite_ids;type:text[]"`
	MatchedDogID string         `gorm:"column:matched_dog_id"`
	CreatedAt    time.Time      `gorm:"column:created_at;index"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (matchRow) TableName() string { return "match_history" }

func toMatchRow(record *domain.MatchRecord) matchRow {
	return matchRow{
		ID:           record.ID,
		SessionID:    record.SessionID,
		FavoriteIDs:  pq.StringArray(append([]string{}, record.FavoriteIDs...)),
		MatchedDogID: record.MatchedDogID,
	}
}

func toProjection(row *matchRow) *ports.MatchProjection {
	record := &domain.MatchRecord{
		ID:           row.ID,
		SessionID:    row.SessionID,
		FavoriteIDs:  append([]string{}, row.FavoriteIDs...),
		MatchedDogID: row.MatchedDogID,
		CreatedAt:    row.CreatedAt,
	}
	return projection.New(record, row.CreatedAt, row.UpdatedAt)
}
