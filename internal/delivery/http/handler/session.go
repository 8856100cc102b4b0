package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/shopper"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(sessionID uuid.UUID) (string, error)
	TTL() time.Duration
}

// SessionHandler starts shopper sessions
type SessionHandler struct {
	registry *shopper.Registry
	tokens   TokenIssuer
	logger   *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *shopper.Registry, tokens TokenIssuer, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		tokens:   tokens,
		logger:   log,
	}
}

// SessionResponse is returned when a session starts
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Create handles POST /api/v1/sessions
// @Summary Start a shopper session
// @Description Create an anonymous shopper session and return its bearer token
// @Tags Sessions
// @Produce json
// @Success 201 {object} SessionResponse "Session created"
// @Failure 500 {object} map[string]string "Internal server error"
// @Failure 503 {object} map[string]string "Session store unavailable"
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Create(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "")
		return
	}

	token, err := h.tokens.Issue(s.ID)
	if err != nil {
		h.registry.Forget(s.ID)
		handleError(w, h.logger, err, "")
		return
	}

	h.logger.Infof("Started shopper session %s", s.ID)

	response.Created(w, SessionResponse{
		SessionID: s.ID.String(),
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}
