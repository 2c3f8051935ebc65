package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

func TestMatchHistory_SaveAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	history := NewMatchHistory()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := base
	history.WithClock(func() time.Time { return tick })

	first, err := domain.NewMatchRecord("m1", "s1", []string{"a", "b"}, "a")
	require.NoError(t, err)
	_, err = history.Save(ctx, first)
	require.NoError(t, err)

	tick = base.Add(time.Minute)
	second, err := domain.NewMatchRecord("m2", "s1", []string{"c"}, "c")
	require.NoError(t, err)
	saved, err := history.Save(ctx, second)
	require.NoError(t, err)
	require.Equal(t, tick, saved.Metadata.CreatedAt)
	require.Equal(t, tick, saved.Entity.CreatedAt)

	other, err := domain.NewMatchRecord("m3", "s2", []string{"d"}, "d")
	require.NoError(t, err)
	_, err = history.Save(ctx, other)
	require.NoError(t, err)

	list, err := history.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "m2", list[0].Entity.ID)
	require.Equal(t, "m1", list[1].Entity.ID)
}

func TestMatchHistory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	history := NewMatchHistory()
	record, err := domain.NewMatchRecord("m1", "s1", []string{"a"}, "a")
	require.NoError(t, err)
	saved, err := history.Save(ctx, record)
	require.NoError(t, err)

	saved.Entity.FavoriteIDs[0] = "mutated"
	record.FavoriteIDs[0] = "mutated"

	list, err := history.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, list[0].Entity.FavoriteIDs)
}

func TestMatchHistory_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	history := NewMatchHistory()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	history.WithClock(func() time.Time { return tick })

	old, _ := domain.NewMatchRecord("old", "s1", []string{"a"}, "a")
	_, err := history.Save(ctx, old)
	require.NoError(t, err)

	tick = base.Add(48 * time.Hour)
	fresh, _ := domain.NewMatchRecord("fresh", "s1", []string{"b"}, "b")
	_, err = history.Save(ctx, fresh)
	require.NoError(t, err)

	removed, err := history.PurgeOlderThan(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	list, err := history.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "fresh", list[0].Entity.ID)
}

func TestMatchHistory_RejectsNilRecord(t *testing.T) {
	_, err := NewMatchHistory().Save(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrEmptyMatch)
}
