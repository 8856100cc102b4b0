package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Pesokrava/ecocart/internal/catalog"
	"github.com/Pesokrava/ecocart/internal/delivery/http/request"
	"github.com/Pesokrava/ecocart/internal/delivery/http/response"
	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/pkg/validator"
	"github.com/Pesokrava/ecocart/internal/usecase/shop"
)

// CartHandler handles the cart, wishlist and filter commands of a session
type CartHandler struct {
	catalog *catalog.Provider
	logger  *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(provider *catalog.Provider, log *logger.Logger) *CartHandler {
	return &CartHandler{
		catalog: provider,
		logger:  log,
	}
}

// AddItemRequest represents the request body for adding a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity,omitempty" validate:"omitempty,min=1,max=999"`
}

// SetQuantityRequest represents the request body for changing a line quantity.
// Zero or negative quantities remove the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// WishlistRequest represents the request body for adding to the wishlist
type WishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// FiltersRequest represents a partial update of the catalog filters
type FiltersRequest struct {
	Search      *string  `json:"search,omitempty"`
	MinEcoScore *float64 `json:"min_eco_score,omitempty" validate:"omitempty,gte=0,lte=5"`
	SortBy      *string  `json:"sort_by,omitempty"`
}

// CartView is the cart as returned by the API
type CartView struct {
	Items            []domain.CartItem `json:"items"`
	TotalItems       int               `json:"total_items"`
	TotalCarbonSaved float64           `json:"total_carbon_saved"`
}

// SwapResult is returned after a cart line is swapped
type SwapResult struct {
	CartView
	CarbonDelta float64 `json:"carbon_delta"`
}

func cartView(state domain.AppState) CartView {
	return CartView{
		Items:            state.Cart,
		TotalItems:       state.TotalItems(),
		TotalCarbonSaved: state.TotalCarbonSaved,
	}
}

// Get handles GET /api/v1/cart
// @Summary Get the cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartView "Cart lines and carbon total"
// @Failure 401 {object} map[string]string "Missing or invalid session token"
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, cartView(s.Shop.State()))
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add a product to the cart
// @Description Adds one unit, or the given quantity, to the product's cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body AddItemRequest true "Product to add"
// @Success 201 {object} CartView "Updated cart"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.Get().Struct(req); err != nil {
		response.ValidationError(w, "Invalid request body", validator.FailedFields(err))
		return
	}

	product, err := h.catalog.Find(req.ProductID)
	if err != nil {
		handleError(w, h.logger, err, "Product not found")
		return
	}

	_, state := s.Shop.Transact(r.Context(), func(current domain.AppState) []shop.Command {
		cmds := []shop.Command{shop.AddToCart{Product: product}}
		if req.Quantity > 1 {
			line, _ := current.CartLine(product.ID)
			cmds = append(cmds, shop.SetQuantity{
				ProductID: product.ID,
				Quantity:  line.Quantity + req.Quantity,
			})
		}
		return cmds
	})

	response.Created(w, cartView(state))
}

// UpdateItem handles PUT /api/v1/cart/items/{id}
// @Summary Set a cart line quantity
// @Description Zero or negative quantities remove the line
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param quantity body SetQuantityRequest true "New quantity"
// @Success 200 {object} CartView "Updated cart"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Product not in cart"
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	id, err := request.GetParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req SetQuantityRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, found := s.Shop.State().CartLine(id); !found {
		response.Error(w, http.StatusNotFound, "Product not in cart")
		return
	}

	state := s.Shop.Dispatch(r.Context(), shop.SetQuantity{ProductID: id, Quantity: req.Quantity})
	response.Success(w, cartView(state))
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
// @Summary Remove a cart line
// @Tags Cart
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Line removed"
// @Failure 404 {object} map[string]string "Product not in cart"
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	id, err := request.GetParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if _, found := s.Shop.State().CartLine(id); !found {
		response.Error(w, http.StatusNotFound, "Product not in cart")
		return
	}

	s.Shop.Dispatch(r.Context(), shop.RemoveFromCart{ProductID: id})
	response.NoContent(w)
}

// Clear handles DELETE /api/v1/cart
// @Summary Empty the cart
// @Description Removes every line; the wishlist and carbon total are kept
// @Tags Cart
// @Security BearerAuth
// @Success 204 "Cart emptied"
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	s.Shop.Dispatch(r.Context(), shop.ClearCart{})
	response.NoContent(w)
}

// Swap handles POST /api/v1/cart/items/{id}/swap
// @Summary Swap a cart line to its eco alternative
// @Description Replaces the line with its alternative, keeping the quantity, and credits the carbon saving
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID of the line to swap"
// @Success 200 {object} SwapResult "Updated cart and credited saving"
// @Failure 400 {object} map[string]string "Line has no alternative"
// @Failure 404 {object} map[string]string "Product not in cart"
// @Router /cart/items/{id}/swap [post]
func (h *CartHandler) Swap(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	id, err := request.GetParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var (
		line  domain.CartItem
		found bool
	)
	before, after := s.Shop.Transact(r.Context(), func(current domain.AppState) []shop.Command {
		line, found = current.CartLine(id)
		if !found || line.Alternative == nil {
			return nil
		}
		return []shop.Command{shop.SwapToAlternative{OriginalID: id, Alternative: *line.Alternative}}
	})
	if !found {
		response.Error(w, http.StatusNotFound, "Product not in cart")
		return
	}
	if line.Alternative == nil {
		response.Error(w, http.StatusBadRequest, "Product has no alternative")
		return
	}

	credited := decimal.NewFromFloat(after.TotalCarbonSaved).Sub(decimal.NewFromFloat(before.TotalCarbonSaved))

	response.Success(w, SwapResult{
		CartView:    cartView(after),
		CarbonDelta: credited.InexactFloat64(),
	})
}

// Summary handles GET /api/v1/cart/summary
// @Summary Checkout summary
// @Description Totals, potential savings and, with a delivery option, the final price and adjusted carbon impact
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param delivery query string false "Delivery option ID"
// @Success 200 {object} shop.Summary "Cart summary"
// @Failure 404 {object} map[string]string "Delivery option not found"
// @Router /cart/summary [get]
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var delivery *domain.DeliveryOption
	if id := r.URL.Query().Get("delivery"); id != "" {
		opt, err := h.catalog.DeliveryOption(id)
		if err != nil {
			handleError(w, h.logger, err, "Delivery option not found")
			return
		}
		delivery = &opt
	}

	response.Success(w, shop.Summarize(s.Shop.State(), delivery))
}

// Wishlist handles GET /api/v1/wishlist
// @Summary Get the wishlist
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Wishlist products"
// @Router /wishlist [get]
func (h *CartHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}
	response.Success(w, s.Shop.State().Wishlist)
}

// AddToWishlist handles POST /api/v1/wishlist
// @Summary Add a product to the wishlist
// @Description Adding a product already on the wishlist leaves it unchanged
// @Tags Wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body WishlistRequest true "Product to add"
// @Success 201 {object} map[string]interface{} "Updated wishlist"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /wishlist [post]
func (h *CartHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req WishlistRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.Get().Struct(req); err != nil {
		response.ValidationError(w, "Invalid request body", validator.FailedFields(err))
		return
	}

	product, err := h.catalog.Find(req.ProductID)
	if err != nil {
		handleError(w, h.logger, err, "Product not found")
		return
	}

	state := s.Shop.Dispatch(r.Context(), shop.AddToWishlist{Product: product})
	response.Created(w, state.Wishlist)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/{id}
// @Summary Remove a product from the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Removed"
// @Failure 404 {object} map[string]string "Product not on wishlist"
// @Router /wishlist/{id} [delete]
func (h *CartHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	id, err := request.GetParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if !s.Shop.State().InWishlist(id) {
		response.Error(w, http.StatusNotFound, "Product not on wishlist")
		return
	}

	s.Shop.Dispatch(r.Context(), shop.RemoveFromWishlist{ProductID: id})
	response.NoContent(w)
}

// UpdateFilters handles PUT /api/v1/filters
// @Summary Update catalog filters
// @Description Only the supplied fields change
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param filters body FiltersRequest true "Filter fields"
// @Success 200 {object} domain.Filters "Current filters"
// @Failure 400 {object} map[string]string "Invalid filters"
// @Router /filters [put]
func (h *CartHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentShopper(w, r)
	if !ok {
		return
	}

	var req FiltersRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validator.Get().Struct(req); err != nil {
		response.ValidationError(w, "Invalid filters", validator.FailedFields(err))
		return
	}
	if req.SortBy != nil && !domain.SortKey(*req.SortBy).Valid() {
		response.ValidationError(w, "Invalid filters", []string{"sort_by"})
		return
	}

	ctx := r.Context()
	state := s.Shop.State()
	if req.Search != nil {
		state = s.Shop.Dispatch(ctx, shop.SetSearch{Search: *req.Search})
	}
	if req.MinEcoScore != nil {
		state = s.Shop.Dispatch(ctx, shop.SetMinEcoScore{MinEcoScore: *req.MinEcoScore})
	}
	if req.SortBy != nil {
		state = s.Shop.Dispatch(ctx, shop.SetSortBy{SortBy: domain.SortKey(*req.SortBy)})
	}

	response.Success(w, state.Filters)
}
