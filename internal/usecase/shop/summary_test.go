package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pesokrava/ecocart/internal/domain"
)

func TestSummarize_WithoutDelivery(t *testing.T) {
	state := InitialState(nil)
	state = Reduce(state, AddToCart{Product: conventionalBottle()})
	state = Reduce(state, SetQuantity{ProductID: "reg-1", Quantity: 2})
	state = Reduce(state, AddToCart{Product: bamboo()})

	summary := Summarize(state, nil)

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 8.0, summary.TotalPrice)
	assert.Equal(t, 20.2, summary.TotalCarbonImpact)
	assert.Equal(t, 12.0, summary.PotentialSavings)
	assert.Equal(t, 8.0, summary.FinalTotal)
	assert.Equal(t, 20.2, summary.AdjustedCarbonImpact)
	assert.Empty(t, summary.DeliveryOptionID)
}

func TestSummarize_WithDelivery(t *testing.T) {
	state := Reduce(InitialState(nil), AddToCart{Product: conventionalBottle()})
	eco := &domain.DeliveryOption{ID: "eco", Price: 49, CarbonReduction: 35}

	summary := Summarize(state, eco)

	assert.Equal(t, "eco", summary.DeliveryOptionID)
	assert.Equal(t, 49.0, summary.DeliveryPrice)
	assert.Equal(t, 51.5, summary.FinalTotal)
	assert.Equal(t, 6.5, summary.AdjustedCarbonImpact)
}

func TestSummarize_PotentialSavingsIgnoresWorseAlternatives(t *testing.T) {
	p := conventionalBottle()
	p.Alternative.CarbonImpact = 15
	state := Reduce(InitialState(nil), AddToCart{Product: p})

	assert.Zero(t, Summarize(state, nil).PotentialSavings)
}

func TestBuildReport(t *testing.T) {
	state := InitialState(nil)
	state = Reduce(state, AddToCart{Product: conventionalBottle()})
	state = Reduce(state, SetQuantity{ProductID: "reg-1", Quantity: 7})
	state = Reduce(state, SwapToAlternative{OriginalID: "reg-1", Alternative: *conventionalBottle().Alternative})
	state = Reduce(state, AddToCart{Product: conventionalBottle()})

	report := BuildReport(state)

	// footprint 7*4 + 10 = 38, saved 42, potential 6
	assert.Equal(t, 38.0, report.CarbonFootprint)
	assert.Equal(t, 42.0, report.CarbonSaved)
	assert.Equal(t, 6.0, report.PotentialSavings)
	assert.Equal(t, 86.0, report.ConventionalFootprint)
	assert.Equal(t, 55.8, report.SavingsPercentage)
	assert.Equal(t, int64(2), report.TreesEquivalent)
	assert.Equal(t, int64(105), report.CarMilesEquivalent)
}

func TestBuildReport_EmptyState(t *testing.T) {
	report := BuildReport(InitialState(nil))

	assert.Zero(t, report.SavingsPercentage)
	assert.Zero(t, report.TreesEquivalent)
}
