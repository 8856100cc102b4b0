package handler

import (
	"net/http"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/delivery/http/request"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// CatalogHandler serves the active catalog and static reference data
type CatalogHandler struct {
	catalog  *catalog.Provider
	pageSize int
	logger   *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(provider *catalog.Provider, pageSize int, log *logger.Logger) *CatalogHandler {
	if pageSize <= 0 {
		pageSize = shop.DefaultPageSize
	}
	return &CatalogHandler{
		catalog:  provider,
		pageSize: pageSize,
		logger:   log,
	}
}

// List handles GET /api/v1/products
// @Summary List the active catalog
// @Description Products of the session's catalog mode, filtered by the session filters. Query parameters override the filters for this request only.
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category tag or 'all'"
// @Param search query string false "Case-insensitive name search"
// @Param min_eco_score query number false "Minimum eco score"
// @Param sort_by query string false "carbon-asc, carbon-desc, eco-score or name"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(12)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Failure 400 {object} map[string]string "Invalid sort key"
// @Failure 401 {object} map[string]string "Missing or invalid session token"
// @Router /products [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	state := s.Shop.State()
	q := r.URL.Query()
	if q.Has("search") {
		state.Filters.Search = q.Get("search")
	}
	if score, ok := request.GetFloatQuery(r, "min_eco_score"); ok {
		state.Filters.MinEcoScore = score
	}
	if sortBy := q.Get("sort_by"); sortBy != "" {
		key := domain.SortKey(sortBy)
		if !key.Valid() {
			response.Error(w, http.StatusBadRequest, "Invalid sort key")
			return
		}
		state.Filters.SortBy = key
	}

	page, pageSize := request.GetPageParams(r, h.pageSize)
	result := shop.VisibleProducts(state, q.Get("category"), page, pageSize)

	response.Paginated(w, result.Products, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// GetByID handles GET /api/v1/products/{id}
// @Summary Get a product by ID
// @Description Look a product up in either catalog table
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalog.Find(id)
	if err != nil {
		handleError(w, h.logger, err, "Product not found")
		return
	}

	response.Success(w, product)
}

// Categories handles GET /api/v1/categories
// @Summary List product categories
// @Tags Products
// @Produce json
// @Success 200 {object} map[string]interface{} "Category tags"
// @Router /categories [get]
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.catalog.Categories())
}

// Tips handles GET /api/v1/tips
// @Summary List sustainability tips
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{} "Tips"
// @Router /tips [get]
func (h *CatalogHandler) Tips(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.catalog.Tips())
}

// DeliveryOptions handles GET /api/v1/delivery-options
// @Summary List delivery options
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{} "Delivery options"
// @Router /delivery-options [get]
func (h *CatalogHandler) DeliveryOptions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.catalog.DeliveryOptions())
}
