package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackerbot/server/internal/bot/dispatch"
	"github.com/snackerbot/server/internal/bot/graph"
	"github.com/snackerbot/server/internal/bot/menus"
	"github.com/snackerbot/server/internal/bot/model"
	"github.com/snackerbot/server/internal/bot/repo"
)

type sageOnly struct{}

func (sageOnly) FetchMenu(_ context.Context, hall model.Hall, _ model.Date) (model.MenuDocument, error) {
	if hall.ID != model.HallSage {
		return nil, assert.AnError
	}
	return model.MenuDocument{{Name: "Dinner", Groups: []model.ItemGroup{{Name: "Entree", Items: []model.MenuItem{
		{Name: "Roast Chicken", Description: "Herbed"},
	}}}}}, nil
}

func newServer(t *testing.T) (*httptest.Server, *menus.Cache) {
	t.Helper()
	now := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
	cache := menus.NewCache(func() time.Time { return now }, time.UTC)
	refresher := menus.NewRefresher(cache, sageOnly{}, model.Halls(), 2)
	runner, err := graph.BuildSelectionGraph(context.Background(), graph.Config{Cache: cache, Refresher: refresher})
	require.NoError(t, err)

	d := dispatch.New(runner, repo.NewInlineTokenRepository(), refresher, nil)
	srv := httptest.NewServer(NewHandler(d, cache).Router())
	t.Cleanup(srv.Close)
	return srv, cache
}

func decode(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func TestHealthAndRefresh(t *testing.T) {
	srv, _ := newServer(t)

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	var health healthResponse
	decode(t, res, &health)
	assert.False(t, health.Fresh)
	assert.Empty(t, health.CachedFor)

	res, err = http.Post(srv.URL+"/admin/refresh", "application/json", nil)
	require.NoError(t, err)
	var resp dispatch.Response
	decode(t, res, &resp)
	assert.Equal(t, "✅ Menu cache updated! (3 of 4 halls unavailable)", resp.Content)

	res, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	decode(t, res, &health)
	assert.True(t, health.Fresh)
	assert.Equal(t, "2026-03-09", health.CachedFor)
}

func TestMenuFlowOverHTTP(t *testing.T) {
	srv, _ := newServer(t)

	res, err := http.Get(srv.URL + "/menus?hall=sage")
	require.NoError(t, err)
	var resp dispatch.Response
	decode(t, res, &resp)
	require.Equal(t, model.ReplyChoices, resp.Kind)
	assert.Equal(t, "meal:sage:false", resp.Token)

	body := `{"token":"` + resp.Token + `","selected":"Dinner"}`
	res, err = http.Post(srv.URL+"/menus/choice", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, res, &resp)
	require.Equal(t, model.ReplyMenu, resp.Kind)
	require.NotNil(t, resp.Embed)
	assert.Contains(t, resp.Embed.Title, "Russell Sage Dining Hall - Dinner")
}

func TestBadRequests(t *testing.T) {
	srv, _ := newServer(t)

	res, err := http.Get(srv.URL + "/menus?vegetarian=perhaps")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Post(srv.URL+"/menus/choice", "application/json", strings.NewReader(`{"token":""}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestFailedChoiceCarriesStatus(t *testing.T) {
	srv, _ := newServer(t)

	body := `{"token":"garbage","selected":"Dinner"}`
	res, err := http.Post(srv.URL+"/menus/choice", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var resp dispatch.Response
	decode(t, res, &resp)
	assert.Equal(t, dispatch.GenericFailureMessage, resp.Content)
}
