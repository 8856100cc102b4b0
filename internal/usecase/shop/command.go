package shop

import "github.com/Pesokrava/ecocart/internal/domain"

// Command is a state transition accepted by Store.Dispatch. The set of
// commands is closed: only the types in this file implement it.
type Command interface {
	command()
}

// AddToCart adds one unit of a product to the cart
type AddToCart struct {
	Product domain.Product
}

// RemoveFromCart deletes a cart line
type RemoveFromCart struct {
	ProductID string
}

// SetQuantity sets a cart line's quantity; zero or less removes the line
type SetQuantity struct {
	ProductID string
	Quantity  int
}

// ClearCart empties the cart
type ClearCart struct{}

// AddToWishlist adds a product to the wishlist if it is not there yet
type AddToWishlist struct {
	Product domain.Product
}

// RemoveFromWishlist deletes a product from the wishlist
type RemoveFromWishlist struct {
	ProductID string
}

// SetSearch replaces the catalog search text
type SetSearch struct {
	Search string
}

// SetMinEcoScore replaces the minimum eco score filter
type SetMinEcoScore struct {
	MinEcoScore float64
}

// SetSortBy replaces the catalog sort key
type SetSortBy struct {
	SortBy domain.SortKey
}

// SwapToAlternative replaces a cart line with its lower-impact alternative
// and credits the carbon difference
type SwapToAlternative struct {
	OriginalID  string
	Alternative domain.Alternative
}

// SetProducts replaces the active catalog
type SetProducts struct {
	Products []domain.Product
}

func (AddToCart) command()          {}
func (RemoveFromCart) command()     {}
func (SetQuantity) command()        {}
func (ClearCart) command()          {}
func (AddToWishlist) command()      {}
func (RemoveFromWishlist) command() {}
func (SetSearch) command()          {}
func (SetMinEcoScore) command()     {}
func (SetSortBy) command()          {}
func (SwapToAlternative) command()  {}
func (SetProducts) command()        {}
