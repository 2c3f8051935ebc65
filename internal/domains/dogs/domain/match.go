package domain

import (
	"errors"
	"strings"
	"time"
)

// MatchRecord remembers which dog the shelter service matched for a session
// and which favorites were submitted.
type MatchRecord struct {
	ID           string
	SessionID    string
	FavoriteIDs  []string
	MatchedDogID string
	CreatedAt    time.Time
}

var (
	ErrEmptyFavorites = errors.New("at least one favorite is required to request a match")
	ErrEmptyMatch     = errors.New("matched dog id is required")
)

// NewMatchRecord validates and builds a record.
func NewMatchRecord(id, sessionID string, favoriteIDs []string, matched string) (*MatchRecord, error) {
	if len(favoriteIDs) == 0 {
		return nil, ErrEmptyFavorites
	}
	if strings.TrimSpace(matched) == "" {
		return nil, ErrEmptyMatch
	}
	return &MatchRecord{
		ID:           id,
		SessionID:    sessionID,
		FavoriteIDs:  append([]string{}, favoriteIDs...),
		MatchedDogID: matched,
	}, nil
}
