package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

func TestGamificationHandler(t *testing.T) {
	f := newFixture(t)
	service := gamification.NewService(f.catalog.Leaderboard(), nil, f.log)
	handler := NewGamificationHandler(service, f.catalog, f.log)

	product, err := f.catalog.Find("reg-1")
	require.NoError(t, err)
	ctx := t.Context()
	f.shopper.Shop.Dispatch(ctx, shop.AddToCart{Product: product})
	f.shopper.Shop.Dispatch(ctx, shop.SwapToAlternative{OriginalID: product.ID, Alternative: *product.Alternative})
	saved := f.shopper.Shop.State().TotalCarbonSaved

	w := httptest.NewRecorder()
	handler.Stats(w, f.newRequest(http.MethodGet, "/api/v1/stats", nil, nil))
	var stats gamification.Stats
	decode(t, w, &stats)
	assert.Equal(t, saved, stats.CarbonSaved)
	assert.Equal(t, gamification.Level(saved), stats.Level)

	w = httptest.NewRecorder()
	handler.Badges(w, f.newRequest(http.MethodGet, "/api/v1/badges", nil, nil))
	var badges []gamification.BadgeStatus
	decode(t, w, &badges)
	assert.Len(t, badges, len(f.catalog.Badges()))

	w = httptest.NewRecorder()
	handler.Leaderboard(w, f.newRequest(http.MethodGet, "/api/v1/leaderboard", nil, nil))
	var board gamification.Board
	decode(t, w, &board)
	assert.Len(t, board.Entries, gamification.BoardSize)
	assert.Equal(t, f.shopper.ID.String(), board.You.ID)
	assert.Equal(t, "You", board.You.Name)

	w = httptest.NewRecorder()
	handler.Report(w, f.newRequest(http.MethodGet, "/api/v1/report", nil, nil))
	var report shop.Report
	decode(t, w, &report)
	assert.Equal(t, saved, report.CarbonSaved)
}
