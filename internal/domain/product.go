package domain

// Product represents an entry in one of the fixed catalog tables
type Product struct {
	ID                       string       `json:"id" yaml:"id"`
	Name                     string       `json:"name" yaml:"name"`
	Image                    string       `json:"image" yaml:"image"`
	Price                    float64      `json:"price" yaml:"price"`
	EcoScore                 float64      `json:"eco_score" yaml:"eco_score"`
	CarbonImpact             float64      `json:"carbon_impact" yaml:"carbon_impact"`
	Description              string       `json:"description" yaml:"description"`
	SustainabilityHighlights []string     `json:"sustainability_highlights" yaml:"sustainability_highlights"`
	Category                 string       `json:"category" yaml:"category"`
	Alternative              *Alternative `json:"alternative,omitempty" yaml:"alternative,omitempty"`
}

// Alternative is a lower-impact substitute attached to a catalog entry.
// Optional fields left at their zero value are taken from the original
// product when a cart line is swapped.
type Alternative struct {
	ID                       string   `json:"id" yaml:"id"`
	Name                     string   `json:"name" yaml:"name"`
	CarbonImpact             float64  `json:"carbon_impact" yaml:"carbon_impact"`
	EcoScore                 float64  `json:"eco_score" yaml:"eco_score"`
	Price                    *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Image                    string   `json:"image,omitempty" yaml:"image,omitempty"`
	Description              string   `json:"description,omitempty" yaml:"description,omitempty"`
	SustainabilityHighlights []string `json:"sustainability_highlights,omitempty" yaml:"sustainability_highlights,omitempty"`
	Category                 string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Clone returns a deep copy of the product
func (p Product) Clone() Product {
	out := p
	if p.SustainabilityHighlights != nil {
		out.SustainabilityHighlights = append([]string(nil), p.SustainabilityHighlights...)
	}
	if p.Alternative != nil {
		alt := p.Alternative.Clone()
		out.Alternative = &alt
	}
	return out
}

// Clone returns a deep copy of the alternative
func (a Alternative) Clone() Alternative {
	out := a
	if a.Price != nil {
		price := *a.Price
		out.Price = &price
	}
	if a.SustainabilityHighlights != nil {
		out.SustainabilityHighlights = append([]string(nil), a.SustainabilityHighlights...)
	}
	return out
}

// CloneProducts deep-copies a product list, preserving nil
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
