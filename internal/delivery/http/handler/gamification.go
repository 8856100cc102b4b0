package handler

import (
	"net/http"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/gamification"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// GamificationHandler serves progress, badges, the leaderboard and the
// carbon report
type GamificationHandler struct {
	service *gamification.Service
	catalog *catalog.Provider
	logger  *logger.Logger
}

// NewGamificationHandler creates a new gamification handler
func NewGamificationHandler(service *gamification.Service, provider *catalog.Provider, log *logger.Logger) *GamificationHandler {
	return &GamificationHandler{
		service: service,
		catalog: provider,
		logger:  log,
	}
}

// Stats handles GET /api/v1/stats
// @Summary Dashboard statistics
// @Description Carbon saved, level, XP, estimated rank and badge count
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gamification.Stats "Statistics"
// @Router /stats [get]
func (h *GamificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, gamification.Compute(s.Shop.State(), h.catalog.Badges()))
}

// Badges handles GET /api/v1/badges
// @Summary Badge progress
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Badges with unlock state and progress"
// @Router /badges [get]
func (h *GamificationHandler) Badges(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, gamification.Statuses(s.Shop.State(), h.catalog.Badges()))
}

// Leaderboard handles GET /api/v1/leaderboard
// @Summary Leaderboard
// @Description Top entries including live standings, plus the caller's own entry
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gamification.Board "Leaderboard"
// @Router /leaderboard [get]
func (h *GamificationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, h.service.Leaderboard(r.Context(), s.Standing()))
}

// Report handles GET /api/v1/report
// @Summary Carbon report
// @Description Footprint, savings and everyday equivalents
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shop.Report "Carbon report"
// @Router /report [get]
func (h *GamificationHandler) Report(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, shop.BuildReport(s.Shop.State()))
}
