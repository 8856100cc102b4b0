package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Pesokrava/ecocart/internal/delivery/http/middleware"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/session"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

// currentShopper returns the shopper attached by the session middleware,
// answering 401 when there is none
func currentShopper(w http.ResponseWriter, r *http.Request) (*shopper.Shopper, bool) {
	s, ok := middleware.ShopperFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing session")
		return nil, false
	}
	return s, true
}

// handleError maps service layer errors to HTTP responses
func handleError(w http.ResponseWriter, log *logger.Logger, err error, notFound string) {
	if authErr, ok := session.AsAuthError(err); ok {
		response.ValidationError(w, authErr.Message, authErr.Fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, "Not signed in")
	case errors.Is(err, domain.ErrUnavailable):
		log.Warnf("Backing store unavailable: %v", err)
		response.Error(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		response.Error(w, http.StatusServiceUnavailable, "Request abandoned")
	default:
		log.Error("Internal error in handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
