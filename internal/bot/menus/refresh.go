package menus

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/snackerbot/server/internal/bot/model"
	logx "github.com/snackerbot/server/pkg/logger"
)

const defaultConcurrency = 4

// Refresher repopulates a Cache from the vendor, one fetch per hall.
type Refresher struct {
	cache       *Cache
	fetcher     model.MenuFetcher
	halls       []model.Hall
	concurrency int
	runs        atomic.Int64
}

func NewRefresher(cache *Cache, fetcher model.MenuFetcher, halls []model.Hall, concurrency int) *Refresher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Refresher{
		cache:       cache,
		fetcher:     fetcher,
		halls:       halls,
		concurrency: concurrency,
	}
}

// Runs returns how many refreshes have completed.
func (r *Refresher) Runs() int64 {
	return r.runs.Load()
}

// Today returns the cache's current calendar day.
func (r *Refresher) Today() model.Date {
	return r.cache.Today()
}

// Refresh fetches every hall for today and swaps the results into the cache
// in one step. A failed hall becomes a failure marker; it never stops the
// others, and the stamp always advances to today. Cancelling ctx does not
// abort the fetches; FETCH_TIMEOUT bounds each one.
func (r *Refresher) Refresh(ctx context.Context, today model.Date) model.RefreshReport {
	ctx = context.WithoutCancel(ctx)
	logx.Info().Str("date", today.String()).Int("halls", len(r.halls)).Msg("Fetching today's menu data")

	entries := make([]model.CacheEntry, len(r.halls))
	outcomes := make([]model.HallOutcome, len(r.halls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, hall := range r.halls {
		g.Go(func() error {
			entries[i], outcomes[i] = r.fetchOne(gCtx, hall, today)
			// Always nil: one hall failing must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	byHall := make(map[model.HallID]model.CacheEntry, len(entries))
	for _, e := range entries {
		byHall[e.Hall] = e
	}
	r.cache.ReplaceAll(byHall, today)
	r.runs.Add(1)

	report := model.RefreshReport{Date: today, Outcomes: outcomes}
	logx.Info().
		Str("date", today.String()).
		Int("failed", report.Failed()).
		Msg("Updated menu cache for all halls")
	return report
}

func (r *Refresher) fetchOne(ctx context.Context, hall model.Hall, today model.Date) (model.CacheEntry, model.HallOutcome) {
	start := time.Now()
	doc, err := r.fetcher.FetchMenu(ctx, hall, today)
	outcome := model.HallOutcome{Hall: hall.ID, Duration: time.Since(start)}
	if err != nil {
		logx.Error().Err(err).
			Str("hall", string(hall.ID)).
			Str("date", today.String()).
			Msgf("Unable to get today's menu for %s", hall.DisplayName)
		outcome.Message = err.Error()
		return model.FailureEntry(hall.ID, err.Error()), outcome
	}
	logx.Debug().
		Str("hall", string(hall.ID)).
		Int("meals", len(doc)).
		Dur("took", outcome.Duration).
		Msg("Fetched menu")
	outcome.OK = true
	return model.SuccessEntry(hall.ID, doc), outcome
}
