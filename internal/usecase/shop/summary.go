package shop

import (
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// Summary is the checkout view of the cart
type Summary struct {
	TotalItems           int     `json:"total_items"`
	TotalPrice           float64 `json:"total_price"`
	TotalCarbonImpact    float64 `json:"total_carbon_impact"`
	PotentialSavings     float64 `json:"potential_savings"`
	DeliveryOptionID     string  `json:"delivery_option_id,omitempty"`
	DeliveryPrice        float64 `json:"delivery_price"`
	FinalTotal           float64 `json:"final_total"`
	AdjustedCarbonImpact float64 `json:"adjusted_carbon_impact"`
}

// Report compares the shopper's footprint with an all-conventional basket
type Report struct {
	CarbonFootprint       float64 `json:"carbon_footprint"`
	CarbonSaved           float64 `json:"carbon_saved"`
	PotentialSavings      float64 `json:"potential_savings"`
	ConventionalFootprint float64 `json:"conventional_footprint"`
	SavingsPercentage     float64 `json:"savings_percentage"`
	TreesEquivalent       int64   `json:"trees_equivalent"`
	CarMilesEquivalent    int64   `json:"car_miles_equivalent"`
}

var (
	hundred      = decimal.NewFromInt(100)
	kgPerTree    = decimal.NewFromInt(21)
	kgPerCarMile = decimal.NewFromFloat(0.4)
)

// Summarize totals the cart. With a delivery option the delivery price is
// added and the carbon impact reduced by the option's percentage.
func Summarize(state domain.AppState, delivery *domain.DeliveryOption) Summary {
	price := decimal.Zero
	impact := decimal.Zero
	for _, item := range state.Cart {
		qty := decimal.NewFromInt(int64(item.Quantity))
		price = price.Add(decimal.NewFromFloat(item.Price).Mul(qty))
		impact = impact.Add(decimal.NewFromFloat(item.CarbonImpact).Mul(qty))
	}

	summary := Summary{
		TotalItems:        state.TotalItems(),
		TotalPrice:        price.InexactFloat64(),
		TotalCarbonImpact: impact.InexactFloat64(),
		PotentialSavings:  potentialSavings(state.Cart).InexactFloat64(),
	}

	final := price
	adjusted := impact
	if delivery != nil {
		deliveryPrice := decimal.NewFromFloat(delivery.Price)
		summary.DeliveryOptionID = delivery.ID
		summary.DeliveryPrice = deliveryPrice.InexactFloat64()
		final = final.Add(deliveryPrice)
		reduction := decimal.NewFromFloat(delivery.CarbonReduction).Div(hundred)
		adjusted = impact.Mul(decimal.NewFromInt(1).Sub(reduction))
	}
	summary.FinalTotal = final.InexactFloat64()
	summary.AdjustedCarbonImpact = adjusted.InexactFloat64()

	return summary
}

// BuildReport derives the carbon report for the current state
func BuildReport(state domain.AppState) Report {
	footprint := decimal.Zero
	for _, item := range state.Cart {
		footprint = footprint.Add(decimal.NewFromFloat(item.CarbonImpact).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	saved := decimal.NewFromFloat(state.TotalCarbonSaved)
	potential := potentialSavings(state.Cart)
	conventional := footprint.Add(saved).Add(potential)

	pct := decimal.Zero
	if conventional.IsPositive() {
		pct = saved.Add(potential).Div(conventional).Mul(hundred)
	}

	return Report{
		CarbonFootprint:       footprint.InexactFloat64(),
		CarbonSaved:           saved.InexactFloat64(),
		PotentialSavings:      potential.InexactFloat64(),
		ConventionalFootprint: conventional.InexactFloat64(),
		SavingsPercentage:     pct.Round(1).InexactFloat64(),
		TreesEquivalent:       saved.Div(kgPerTree).Round(0).IntPart(),
		CarMilesEquivalent:    saved.Div(kgPerCarMile).Round(0).IntPart(),
	}
}

// potentialSavings sums the positive per-line savings still available by
// swapping to each line's alternative
func potentialSavings(cart []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart {
		if item.Alternative == nil {
			continue
		}
		delta := CarbonDelta(item.CarbonImpact, item.Alternative.CarbonImpact, item.Quantity)
		if delta.IsPositive() {
			total = total.Add(delta)
		}
	}
	return total
}
