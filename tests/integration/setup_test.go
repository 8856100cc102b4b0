//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/config"
	httpDelivery "github.com/Pesokrava/ecocart/internal/delivery/http"
	"github.com/Pesokrava/ecocart/internal/delivery/http/handler"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/database"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/pkg/token"
	"github.com/Pesokrava/ecocart/internal/repository/postgres"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

func loadConfig(t *testing.T) (*config.Config, *logger.Logger) {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg, logger.New(cfg.Env)
}

func openDB(t *testing.T, cfg *config.Config, log *logger.Logger) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.WaitForDB(ctx, cfg, log, 5, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newServer wires the API the way cmd/api does for the given slot backend
func newServer(t *testing.T, cfg *config.Config, log *logger.Logger, slots domain.SlotStore, standings domain.StandingRepository, publisher shop.EventPublisher) *httptest.Server {
	t.Helper()
	provider := catalog.MustLoad()
	registry := shopper.NewRegistry(slot.NewAdapter(slots, cfg.Storage.KeyPrefix, log), provider, log, shopper.Options{
		LoginDelay: 10 * time.Millisecond,
		Publisher:  publisher,
	})
	tokens := token.NewManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	router := httpDelivery.NewRouter(httpDelivery.Handlers{
		Session:      handler.NewSessionHandler(registry, tokens, log),
		Catalog:      handler.NewCatalogHandler(provider, cfg.Catalog.PageSize, log),
		Cart:         handler.NewCartHandler(provider, log),
		Display:      handler.NewDisplayHandler(log),
		Auth:         handler.NewAuthHandler(log),
		Gamification: handler.NewGamificationHandler(gamification.NewService(provider.Leaderboard(), standings, log), provider, log),
	}, tokens, registry, cfg, log)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

func newPostgresServer(t *testing.T, db *sqlx.DB, publisher shop.EventPublisher) *httptest.Server {
	cfg, log := loadConfig(t)
	return newServer(t, cfg, log, postgres.NewSlotRepository(db), postgres.NewStandingRepository(db), publisher)
}

func call(t *testing.T, server *httptest.Server, method, path, tok string, body interface{}) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func newSession(t *testing.T, server *httptest.Server) (string, string) {
	t.Helper()
	code, body := call(t, server, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]any)
	return data["session_id"].(string), data["token"].(string)
}
