package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]int{"total_items": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["data"].(map[string]any)["total_items"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "pagination")
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, "Product not in cart")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]any{"error": "Product not in cart"}, body)
}

func TestValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	ValidationError(w, "Invalid credentials", []string{"password"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid credentials", body["error"])
	assert.Equal(t, []any{"password"}, body["fields"])
}

func TestPaginated(t *testing.T) {
	w := httptest.NewRecorder()

	Paginated(w, []string{"reg-1", "reg-2"}, 20, 2, 2, 10)

	body := decode(t, w)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, map[string]any{
		"total":       float64(20),
		"page":        float64(2),
		"page_size":   float64(2),
		"total_pages": float64(10),
	}, body["pagination"])
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
