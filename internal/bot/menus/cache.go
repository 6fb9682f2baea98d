package menus

import (
	"sync/atomic"
	"time"

	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
)

// snapshot is one complete refresh result. Never mutated after publication.
type snapshot struct {
	date    model.Date
	entries map[model.HallID]model.CacheEntry
}

// Cache holds the most recent refresh snapshot. It starts empty and is only
// ever replaced wholesale, so readers see either the old or the new snapshot.
type Cache struct {
	snap  atomic.Pointer[snapshot]
	clock model.Clock
	loc   *time.Location
}

// NewCache returns an empty cache. A nil clock uses time.Now and a nil
// location uses time.Local.
func NewCache(clock model.Clock, loc *time.Location) *Cache {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Cache{clock: clock, loc: loc}
}

// Today returns the current calendar day in the cache's time zone.
func (c *Cache) Today() model.Date {
	return model.DateOf(c.clock().In(c.loc))
}

// Stamp returns the date the current snapshot was fetched for.
func (c *Cache) Stamp() (model.Date, bool) {
	s := c.snap.Load()
	if s == nil {
		return "", false
	}
	return s.date, true
}

// IsFresh reports whether the cache holds a snapshot for today.
func (c *Cache) IsFresh() bool {
	s := c.snap.Load()
	return s != nil && s.date == c.Today()
}

// Get returns the entry for hall regardless of its date.
func (c *Cache) Get(hall model.HallID) (model.CacheEntry, error) {
	s := c.snap.Load()
	if s == nil {
		return model.CacheEntry{}, errx.ErrNotInitialized
	}
	entry, ok := s.entries[hall]
	if !ok {
		return model.CacheEntry{}, errx.ErrUnknownHall
	}
	return entry, nil
}

// Read is the result of a staleness-checked cache read.
type Read struct {
	Entry model.CacheEntry
	stale bool
}

// Fresh reports whether Entry belongs to today's snapshot and may be served.
func (r Read) Fresh() bool {
	return !r.stale
}

// Read returns the hall's entry when the snapshot is for today, or a stale
// result when the cache is empty or dated another day.
func (c *Cache) Read(hall model.HallID) (Read, error) {
	s := c.snap.Load()
	if s == nil || s.date != c.Today() {
		return Read{stale: true}, nil
	}
	entry, ok := s.entries[hall]
	if !ok {
		return Read{}, errx.ErrUnknownHall
	}
	return Read{Entry: entry}, nil
}

// ReplaceAll publishes entries as the new snapshot stamped with date.
func (c *Cache) ReplaceAll(entries map[model.HallID]model.CacheEntry, date model.Date) {
	copied := make(map[model.HallID]model.CacheEntry, len(entries))
	for hall, entry := range entries {
		copied[hall] = entry
	}
	c.snap.Store(&snapshot{date: date, entries: copied})
}
