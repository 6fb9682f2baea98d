package menus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
)

func TestCacheEmpty(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)

	assert.False(t, c.IsFresh())
	_, ok := c.Stamp()
	assert.False(t, ok)

	_, err := c.Get(model.HallCommons)
	require.ErrorIs(t, err, errx.ErrNotInitialized)

	read, err := c.Read(model.HallCommons)
	require.NoError(t, err)
	assert.False(t, read.Fresh())
}

func TestCacheFreshUntilMidnight(t *testing.T) {
	now := time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)

	c.ReplaceAll(map[model.HallID]model.CacheEntry{
		model.HallCommons: model.SuccessEntry(model.HallCommons, sampleDocument()),
	}, "2026-03-09")
	assert.True(t, c.IsFresh())

	read, err := c.Read(model.HallCommons)
	require.NoError(t, err)
	require.True(t, read.Fresh())
	assert.Len(t, read.Entry.Document, 2)

	now = now.Add(2 * time.Second)
	assert.False(t, c.IsFresh(), "a read just after midnight is stale")

	read, err = c.Read(model.HallCommons)
	require.NoError(t, err)
	assert.False(t, read.Fresh())

	// Get ignores the date and still returns the stored entry.
	entry, err := c.Get(model.HallCommons)
	require.NoError(t, err)
	assert.False(t, entry.Failed())
}

func TestCacheUsesConfiguredZone(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)

	// 02:00 UTC on the 10th is still the 9th at UTC-5.
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), ny)
	assert.Equal(t, model.Date("2026-03-09"), c.Today())
}

func TestCacheReplaceAllIsWholesale(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)

	c.ReplaceAll(map[model.HallID]model.CacheEntry{
		model.HallCommons: model.SuccessEntry(model.HallCommons, sampleDocument()),
		model.HallSage:    model.SuccessEntry(model.HallSage, sampleDocument()),
	}, "2026-03-08")

	entries := map[model.HallID]model.CacheEntry{
		model.HallCommons: model.FailureEntry(model.HallCommons, "boom"),
	}
	c.ReplaceAll(entries, "2026-03-09")
	entries[model.HallSage] = model.SuccessEntry(model.HallSage, nil)

	stamp, ok := c.Stamp()
	require.True(t, ok)
	assert.Equal(t, model.Date("2026-03-09"), stamp)

	entry, err := c.Get(model.HallCommons)
	require.NoError(t, err)
	assert.True(t, entry.Failed())

	// Sage came from the old snapshot and the caller's later map edit must not leak in.
	_, err = c.Get(model.HallSage)
	require.ErrorIs(t, err, errx.ErrUnknownHall)
}
