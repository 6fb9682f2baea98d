package nodes

import (
	"context"

	"github.com/snackerbot/server/internal/bot/menus"
	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
	logx "github.com/snackerbot/server/pkg/logger"
)

// maxStaleRefreshes bounds the refresh-and-retry on a stale read.
const maxStaleRefreshes = 1

// Refresher repopulates the menu cache for a day.
type Refresher interface {
	Refresh(ctx context.Context, today model.Date) model.RefreshReport
}

// MenuReader reads cache entries, refreshing at most once when the cache is
// stale or has never been filled.
type MenuReader struct {
	cache     *menus.Cache
	refresher Refresher
}

func NewMenuReader(cache *menus.Cache, refresher Refresher) *MenuReader {
	return &MenuReader{cache: cache, refresher: refresher}
}

// Entry returns today's entry for hall. It returns errx.ErrCacheStale when
// the cache is still stale after the single refresh.
func (r *MenuReader) Entry(ctx context.Context, hall model.HallID) (model.CacheEntry, error) {
	for attempt := 0; ; attempt++ {
		read, err := r.cache.Read(hall)
		if err != nil {
			return model.CacheEntry{}, err
		}
		if read.Fresh() {
			return read.Entry, nil
		}
		if attempt >= maxStaleRefreshes {
			logx.Warn().Str("hall", string(hall)).Msg("Menu cache still stale after refresh")
			return model.CacheEntry{}, errx.ErrCacheStale
		}

		stamp, _ := r.cache.Stamp()
		logx.Info().
			Str("hall", string(hall)).
			Str("cached_for", stamp.String()).
			Msg("Menu cache stale - refreshing before retry")
		r.refresher.Refresh(ctx, r.cache.Today())
	}
}
