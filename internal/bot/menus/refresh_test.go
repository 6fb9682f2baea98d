package menus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackerbot/server/internal/bot/model"
)

func TestRefreshIsolatesFailures(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)
	fetcher := newFakeFetcher(map[model.HallID]model.MenuDocument{
		model.HallCommons: sampleDocument(),
	})
	r := NewRefresher(c, fetcher, model.Halls(), 2)

	assert.False(t, c.IsFresh())
	report := r.Refresh(context.Background(), c.Today())
	assert.True(t, c.IsFresh())

	assert.Equal(t, model.Date("2026-03-09"), report.Date)
	assert.Len(t, report.Outcomes, len(model.Halls()))
	assert.Equal(t, len(model.Halls())-1, report.Failed())
	assert.EqualValues(t, 1, r.Runs())

	commons, err := c.Get(model.HallCommons)
	require.NoError(t, err)
	assert.False(t, commons.Failed())
	assert.Equal(t, []string{"Breakfast", "Lunch"}, AvailableMeals(commons))

	barh, err := c.Get(model.HallBARH)
	require.NoError(t, err)
	require.True(t, barh.Failed())
	assert.Contains(t, barh.Failure.Message, "503")

	for _, h := range model.Halls() {
		assert.Equal(t, 1, fetcher.calls[h.ID], "hall %s fetched once", h.ID)
	}
}

func TestRefreshAdvancesStampWhenEveryHallFails(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)
	c.ReplaceAll(map[model.HallID]model.CacheEntry{
		model.HallCommons: model.SuccessEntry(model.HallCommons, sampleDocument()),
	}, "2026-03-08")

	r := NewRefresher(c, newFakeFetcher(nil), model.Halls(), 0)
	report := r.Refresh(context.Background(), "2026-03-09")

	assert.Equal(t, len(model.Halls()), report.Failed())
	stamp, ok := c.Stamp()
	require.True(t, ok)
	assert.Equal(t, model.Date("2026-03-09"), stamp)
	assert.True(t, c.IsFresh())

	for _, h := range model.Halls() {
		entry, err := c.Get(h.ID)
		require.NoError(t, err)
		assert.True(t, entry.Failed())
		assert.Empty(t, AvailableMeals(entry))
	}
}

// cancellingFetcher cancels the caller's context during the first fetch and
// fails any fetch that observes a done context.
type cancellingFetcher struct {
	cancel context.CancelFunc
}

func (f *cancellingFetcher) FetchMenu(ctx context.Context, _ model.Hall, _ model.Date) (model.MenuDocument, error) {
	f.cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sampleDocument(), nil
}

func TestRefreshIgnoresCallerCancellation(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	c := NewCache(fixedClock(&now), time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRefresher(c, &cancellingFetcher{cancel: cancel}, model.Halls(), 1)

	report := r.Refresh(ctx, c.Today())
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Zero(t, report.Failed())

	for _, h := range model.Halls() {
		entry, err := c.Get(h.ID)
		require.NoError(t, err)
		assert.False(t, entry.Failed(), "hall %s", h.ID)
	}
}
