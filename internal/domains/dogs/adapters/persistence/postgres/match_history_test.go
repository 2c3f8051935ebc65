package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMatchHistory_RequiresDB(t *testing.T) {
	history := NewMatchHistory(nil)
	_, err := history.ListBySession(context.Background(), "s")
	require.Error(t, err)
	_, err = history.PurgeOlderThan(context.Background(), time.Now())
	require.Error(t, err)
}
