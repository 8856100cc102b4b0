package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/ecocart/internal/delivery/http/request"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

type contextKey string

const shopperKey contextKey = "shopper"

// TokenVerifier resolves a session token to its session ID
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Session requires a valid bearer session token and attaches the session's
// shopper to the request context
func Session(tokens TokenVerifier, registry *shopper.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := request.BearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Missing session token")
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid session token")
				return
			}

			s, err := registry.Open(r.Context(), id)
			if err != nil {
				response.Error(w, http.StatusServiceUnavailable, "Session temporarily unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithShopper(r.Context(), s)))
		})
	}
}

// WithShopper returns a context carrying s
func WithShopper(ctx context.Context, s *shopper.Shopper) context.Context {
	return context.WithValue(ctx, shopperKey, s)
}

// ShopperFrom returns the shopper attached by Session
func ShopperFrom(ctx context.Context) (*shopper.Shopper, bool) {
	s, ok := ctx.Value(shopperKey).(*shopper.Shopper)
	return s, ok && s != nil
}
