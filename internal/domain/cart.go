package domain

// CartItem is a product line in the cart
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Clone returns a deep copy of the cart item
func (c CartItem) Clone() CartItem {
	return CartItem{Product: c.Product.Clone(), Quantity: c.Quantity}
}

// CloneCart deep-copies a cart, preserving nil
func CloneCart(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// SortKey selects the ordering of the visible catalog
type SortKey string

const (
	SortCarbonAsc  SortKey = "carbon-asc"
	SortCarbonDesc SortKey = "carbon-desc"
	SortEcoScore   SortKey = "eco-score"
	SortName       SortKey = "name"
)

// Valid reports whether k is one of the known sort keys
func (k SortKey) Valid() bool {
	switch k {
	case SortCarbonAsc, SortCarbonDesc, SortEcoScore, SortName:
		return true
	}
	return false
}

// Filters holds the catalog search criteria
type Filters struct {
	Search      string  `json:"search"`
	MinEcoScore float64 `json:"min_eco_score"`
	SortBy      SortKey `json:"sort_by"`
}

// DefaultFilters returns the filters a fresh session starts with
func DefaultFilters() Filters {
	return Filters{SortBy: SortEcoScore}
}

// AppState is the shopping state of one shopper session
type AppState struct {
	Products         []Product  `json:"products"`
	Cart             []CartItem `json:"cart"`
	Wishlist         []Product  `json:"wishlist"`
	TotalCarbonSaved float64    `json:"total_carbon_saved"`
	Filters          Filters    `json:"filters"`
}

// Clone returns a deep copy of the state
func (s AppState) Clone() AppState {
	return AppState{
		Products:         CloneProducts(s.Products),
		Cart:             CloneCart(s.Cart),
		Wishlist:         CloneProducts(s.Wishlist),
		TotalCarbonSaved: s.TotalCarbonSaved,
		Filters:          s.Filters,
	}
}

// CartLine returns the cart line for a product ID
func (s AppState) CartLine(productID string) (CartItem, bool) {
	for _, item := range s.Cart {
		if item.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// InWishlist reports whether a product ID is on the wishlist
func (s AppState) InWishlist(productID string) bool {
	for _, p := range s.Wishlist {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// TotalItems returns the summed quantity of all cart lines
func (s AppState) TotalItems() int {
	total := 0
	for _, item := range s.Cart {
		total += item.Quantity
	}
	return total
}

// AverageEcoScore returns the unweighted mean eco score of the cart lines,
// or zero for an empty cart
func (s AppState) AverageEcoScore() float64 {
	if len(s.Cart) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range s.Cart {
		sum += item.EcoScore
	}
	return sum / float64(len(s.Cart))
}
