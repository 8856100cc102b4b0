package handler

import (
	"net/http"

	"github.com/Pesokrava/ecocart/internal/delivery/http/request"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
)

// AuthHandler handles the simulated sign-in of a session
type AuthHandler struct {
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(log *logger.Logger) *AuthHandler {
	return &AuthHandler{logger: log}
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
// @Summary Sign in
// @Description Known demo emails sign in as that user; any other email signs in as a new user. The password must have at least 6 characters.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} domain.User "Signed-in user"
// @Failure 400 {object} map[string]interface{} "Invalid credentials"
// @Failure 503 {object} map[string]string "Request abandoned"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, h.logger, err, "")
		return
	}

	response.Success(w, user)
}

// Register handles POST /api/v1/auth/register
// @Summary Create an account
// @Description Name needs at least 2 characters and password at least 6
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body RegisterRequest true "Name, email and password"
// @Success 201 {object} domain.User "Signed-in user"
// @Failure 400 {object} map[string]interface{} "Invalid details"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.Session.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, h.logger, err, "")
		return
	}

	response.Created(w, user)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Sign out
// @Tags Auth
// @Security BearerAuth
// @Success 204 "Signed out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	s.Session.Logout(r.Context())
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "Signed-in user"
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	user := s.Session.Current()
	if user == nil {
		handleError(w, h.logger, domain.ErrUnauthorized, "")
		return
	}

	response.Success(w, user)
}
