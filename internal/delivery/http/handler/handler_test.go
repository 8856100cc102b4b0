package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/delivery/http/middleware"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

type fixture struct {
	catalog  *catalog.Provider
	registry *shopper.Registry
	shopper  *shopper.Shopper
	log      *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	provider := catalog.MustLoad()
	registry := shopper.NewRegistry(slot.NewAdapter(memory.NewSlotStore(), "ecocart", log), provider, log, shopper.Options{})
	s, err := registry.Create(context.Background())
	require.NoError(t, err)
	return &fixture{
		catalog:  provider,
		registry: registry,
		shopper:  s,
		log:      log,
	}
}

// newRequest builds a request carrying the fixture's shopper and chi URL params
func (f *fixture) newRequest(method, target string, body interface{}, params map[string]string) *http.Request {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := middleware.WithShopper(req.Context(), f.shopper)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Fields     []string        `json:"fields"`
	Pagination map[string]int  `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
