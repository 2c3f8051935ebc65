package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the portal schema. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&matchHistoryRecord{},
	)
}

// Match history schema mirrors the dogs Postgres adapter.
type matchHistoryRecord struct {
	ID           string         `gorm:"primaryKey;column:id;size:36"`
	SessionID    string         `gorm:"column:session_id;size:36;index"`
	FavoriteIDs  pq.StringArray `gorm:"column:favorite_ids;type:text[]"`
	MatchedDogID string         `gorm:"column:matched_dog_id"`
	CreatedAt    time.Time      `gorm:"column:created_at;index"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (matchHistoryRecord) TableName() string { return "match_history" }
