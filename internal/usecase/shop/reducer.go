package shop

import (
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// InitialState returns the state of a session with nothing persisted
func InitialState(products []domain.Product) domain.AppState {
	return domain.AppState{
		Products: domain.CloneProducts(products),
		Cart:     []domain.CartItem{},
		Wishlist: []domain.Product{},
		Filters:  domain.DefaultFilters(),
	}
}

// Reduce applies cmd to state and returns the next state. It never mutates
// state; commands that reference missing cart or wishlist entries return
// state unchanged.
func Reduce(state domain.AppState, cmd Command) domain.AppState {
	switch c := cmd.(type) {
	case AddToCart:
		if c.Product.ID == "" {
			return state
		}
		if idx := lineIndex(state.Cart, c.Product.ID); idx >= 0 {
			cart := append([]domain.CartItem(nil), state.Cart...)
			cart[idx].Quantity++
			state.Cart = cart
			return state
		}
		state.Cart = append(append(make([]domain.CartItem, 0, len(state.Cart)+1), state.Cart...),
			domain.CartItem{Product: c.Product.Clone(), Quantity: 1})
		return state

	case RemoveFromCart:
		if lineIndex(state.Cart, c.ProductID) < 0 {
			return state
		}
		state.Cart = withoutLine(state.Cart, c.ProductID)
		return state

	case SetQuantity:
		idx := lineIndex(state.Cart, c.ProductID)
		if idx < 0 {
			return state
		}
		if c.Quantity <= 0 {
			state.Cart = withoutLine(state.Cart, c.ProductID)
			return state
		}
		cart := append([]domain.CartItem(nil), state.Cart...)
		cart[idx].Quantity = c.Quantity
		state.Cart = cart
		return state

	case ClearCart:
		state.Cart = []domain.CartItem{}
		return state

	case AddToWishlist:
		if c.Product.ID == "" || state.InWishlist(c.Product.ID) {
			return state
		}
		state.Wishlist = append(append(make([]domain.Product, 0, len(state.Wishlist)+1), state.Wishlist...),
			c.Product.Clone())
		return state

	case RemoveFromWishlist:
		if !state.InWishlist(c.ProductID) {
			return state
		}
		wishlist := make([]domain.Product, 0, len(state.Wishlist))
		for _, p := range state.Wishlist {
			if p.ID != c.ProductID {
				wishlist = append(wishlist, p)
			}
		}
		state.Wishlist = wishlist
		return state

	case SetSearch:
		state.Filters.Search = c.Search
		return state

	case SetMinEcoScore:
		state.Filters.MinEcoScore = c.MinEcoScore
		return state

	case SetSortBy:
		state.Filters.SortBy = c.SortBy
		return state

	case SwapToAlternative:
		return swap(state, c)

	case SetProducts:
		state.Products = domain.CloneProducts(c.Products)
		return state

	default:
		return state
	}
}

// CarbonDelta is the saving credited for swapping quantity units of a product
// with the given impact to an alternative. It is negative when the
// alternative has the higher impact.
func CarbonDelta(originalImpact, alternativeImpact float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(originalImpact).
		Sub(decimal.NewFromFloat(alternativeImpact)).
		Mul(decimal.NewFromInt(int64(quantity)))
}

func swap(state domain.AppState, c SwapToAlternative) domain.AppState {
	idx := lineIndex(state.Cart, c.OriginalID)
	if idx < 0 || c.Alternative.ID == "" {
		return state
	}

	original := state.Cart[idx]
	replacement := domain.CartItem{
		Product:  alternativeProduct(original.Product, c.Alternative),
		Quantity: original.Quantity,
	}

	cart := make([]domain.CartItem, 0, len(state.Cart))
	existing := lineIndex(state.Cart, c.Alternative.ID)
	for i, item := range state.Cart {
		switch {
		case existing >= 0 && existing != idx && i == idx:
			// merged into the existing alternative line
		case existing >= 0 && existing != idx && i == existing:
			merged := item
			merged.Quantity += original.Quantity
			cart = append(cart, merged)
		case i == idx:
			cart = append(cart, replacement)
		default:
			cart = append(cart, item)
		}
	}

	delta := CarbonDelta(original.CarbonImpact, c.Alternative.CarbonImpact, original.Quantity)
	state.Cart = cart
	state.TotalCarbonSaved = decimal.NewFromFloat(state.TotalCarbonSaved).Add(delta).InexactFloat64()
	return state
}

// alternativeProduct builds the product a swapped line carries: the
// alternative's identity and impact, with the original's details wherever
// the alternative does not supply its own.
func alternativeProduct(original domain.Product, alt domain.Alternative) domain.Product {
	p := domain.Product{
		ID:                       alt.ID,
		Name:                     alt.Name,
		EcoScore:                 alt.EcoScore,
		CarbonImpact:             alt.CarbonImpact,
		Price:                    original.Price,
		Image:                    original.Image,
		Description:              original.Description,
		SustainabilityHighlights: original.SustainabilityHighlights,
		Category:                 original.Category,
	}
	if alt.Price != nil {
		p.Price = *alt.Price
	}
	if alt.Image != "" {
		p.Image = alt.Image
	}
	if alt.Description != "" {
		p.Description = alt.Description
	}
	if len(alt.SustainabilityHighlights) > 0 {
		p.SustainabilityHighlights = alt.SustainabilityHighlights
	}
	if alt.Category != "" {
		p.Category = alt.Category
	}
	return p.Clone()
}

func lineIndex(cart []domain.CartItem, productID string) int {
	for i, item := range cart {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func withoutLine(cart []domain.CartItem, productID string) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(cart))
	for _, item := range cart {
		if item.ID != productID {
			out = append(out, item)
		}
	}
	return out
}
