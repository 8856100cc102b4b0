package handler

import (
	"net/http"

	"github.com/Pesokrava/ecocart/internal/delivery/http/request"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
)

// DisplayHandler handles the theme and catalog mode toggles
type DisplayHandler struct {
	logger *logger.Logger
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(log *logger.Logger) *DisplayHandler {
	return &DisplayHandler{logger: log}
}

// UpdateDisplayRequest represents a partial update of the display toggles
type UpdateDisplayRequest struct {
	Dark      *bool `json:"dark,omitempty"`
	GreenMode *bool `json:"green_mode,omitempty"`
}

// Get handles GET /api/v1/display
// @Summary Get display toggles
// @Tags Display
// @Produce json
// @Security BearerAuth
// @Success 200 {object} display.Mode "Theme and catalog mode"
// @Router /display [get]
func (h *DisplayHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, s.Display.Mode())
}

// Update handles PUT /api/v1/display
// @Summary Set display toggles
// @Description Changing green_mode replaces the active catalog; the cart is kept
// @Tags Display
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param display body UpdateDisplayRequest true "Toggles to set"
// @Success 200 {object} display.Mode "Theme and catalog mode"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /display [put]
func (h *DisplayHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req UpdateDisplayRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mode := s.Display.Mode()
	if req.Dark != nil {
		mode = s.Display.SetTheme(r.Context(), *req.Dark)
	}
	if req.GreenMode != nil {
		mode = s.Display.SetCatalogMode(r.Context(), *req.GreenMode)
	}

	response.Success(w, mode)
}

// ToggleTheme handles POST /api/v1/display/theme/toggle
// @Summary Toggle dark mode
// @Tags Display
// @Produce json
// @Security BearerAuth
// @Success 200 {object} display.Mode "Theme and catalog mode"
// @Router /display/theme/toggle [post]
func (h *DisplayHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, s.Display.ToggleTheme(r.Context()))
}

// ToggleCatalog handles POST /api/v1/display/catalog/toggle
// @Summary Switch between the conventional and eco catalogs
// @Tags Display
// @Produce json
// @Security BearerAuth
// @Success 200 {object} display.Mode "Theme and catalog mode"
// @Router /display/catalog/toggle [post]
func (h *DisplayHandler) ToggleCatalog(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	mode := s.Display.ToggleCatalogMode(r.Context())
	h.logger.Infof("Session %s switched catalog, eco=%t", s.ID, mode.GreenMode)
	response.Success(w, mode)
}
