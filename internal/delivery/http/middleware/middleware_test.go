package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

type stubVerifier struct {
	id  uuid.UUID
	err error
}

func (s stubVerifier) Verify(string) (uuid.UUID, error) {
	return s.id, s.err
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	h := chimw.RequestID(Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "request_id")
}

func TestLogger_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":201`)
	assert.Contains(t, out, `"bytes":5`)
	assert.Contains(t, out, `"path":"/api/v1/cart/items"`)
}

func TestLogger_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	h := Logger(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/tips", nil))

	assert.Contains(t, buf.String(), `"status":200`)
}

func TestLogger_HealthProbesAreQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	h := Logger(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Minute)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestTimeout_Disabled(t *testing.T) {
	var ok bool
	h := Timeout(0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
}

func TestSession(t *testing.T) {
	log := logger.New("test")
	registry := shopper.NewRegistry(slot.NewAdapter(memory.NewSlotStore(), "ecocart", log), catalog.MustLoad(), log, shopper.Options{})
	id := uuid.New()

	tests := []struct {
		name       string
		header     string
		verifier   stubVerifier
		wantStatus int
	}{
		{"missing header", "", stubVerifier{id: id}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", stubVerifier{id: id}, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized},
		{"valid token", "Bearer good", stubVerifier{id: id}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *shopper.Shopper
			h := Session(tt.verifier, registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = ShopperFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, got)
				assert.Equal(t, id, got.ID)
			}
		})
	}
}

// unreachableSlotStore fails every read like a backend that is down
type unreachableSlotStore struct{}

func (unreachableSlotStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("i/o timeout")
}

func (unreachableSlotStore) Set(context.Context, string, []byte) error {
	return errors.New("i/o timeout")
}

func (unreachableSlotStore) Delete(context.Context, string) error {
	return errors.New("i/o timeout")
}

func TestSession_BackendUnavailable(t *testing.T) {
	log := logger.New("test")
	registry := shopper.NewRegistry(slot.NewAdapter(unreachableSlotStore{}, "ecocart", log), catalog.MustLoad(), log, shopper.Options{})

	called := false
	h := Session(stubVerifier{id: uuid.New()}, registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, called)
	assert.Equal(t, 0, registry.Len())
}

func TestShopperFrom_Empty(t *testing.T) {
	_, ok := ShopperFrom(context.Background())
	assert.False(t, ok)

	_, ok = ShopperFrom(WithShopper(context.Background(), nil))
	assert.False(t, ok)
}
