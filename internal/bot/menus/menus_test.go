package menus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/snackerbot/server/internal/bot/model"
)

// fakeFetcher serves canned documents per hall and fails the rest.
type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[model.HallID]model.MenuDocument
	calls map[model.HallID]int
}

func newFakeFetcher(docs map[model.HallID]model.MenuDocument) *fakeFetcher {
	return &fakeFetcher{docs: docs, calls: map[model.HallID]int{}}
}

func (f *fakeFetcher) FetchMenu(_ context.Context, hall model.Hall, _ model.Date) (model.MenuDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[hall.ID]++
	doc, ok := f.docs[hall.ID]
	if !ok {
		return nil, errors.New("upstream returned 503")
	}
	return doc, nil
}

// fixedClock returns a clock pinned to *now.
func fixedClock(now *time.Time) model.Clock {
	return func() time.Time { return *now }
}

func sampleDocument() model.MenuDocument {
	return model.MenuDocument{
		{Name: "Breakfast", Groups: []model.ItemGroup{{
			Name: "Griddle",
			Items: []model.MenuItem{
				{Name: "Pancakes", Description: "Buttermilk", Vegetarian: true},
				{Name: "Bacon", Description: "Crispy"},
			},
		}}},
		{Name: "Lunch", Groups: []model.ItemGroup{
			{Name: "Grill", Items: []model.MenuItem{
				{Name: "Burger", Description: "Beef patty"},
				{Name: "Veggie Burger", Description: "Black bean", Vegetarian: true},
			}},
			{Name: "Deli", Items: []model.MenuItem{
				{Name: "Turkey Club", Description: "On rye"},
			}},
		}},
	}
}
