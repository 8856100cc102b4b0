package shop

import (
	"sort"
	"strings"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// DefaultPageSize is the number of products shown per catalog page
const DefaultPageSize = 12

// MaxPageSize caps client supplied page sizes
const MaxPageSize = 100

// CategoryAll disables the category filter
const CategoryAll = "all"

// Page is one page of the visible catalog
type Page struct {
	Products   []domain.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// VisibleProducts filters and sorts the active catalog using the state's
// filters and returns the requested page. An empty category or "all" matches
// every product.
func VisibleProducts(state domain.AppState, category string, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	search := strings.ToLower(strings.TrimSpace(state.Filters.Search))
	matched := make([]domain.Product, 0, len(state.Products))
	for _, p := range state.Products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if p.EcoScore < state.Filters.MinEcoScore {
			continue
		}
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		matched = append(matched, p.Clone())
	}

	sortProducts(matched, state.Filters.SortBy)

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Products:   matched[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func sortProducts(products []domain.Product, key domain.SortKey) {
	var less func(a, b domain.Product) bool
	switch key {
	case domain.SortCarbonAsc:
		less = func(a, b domain.Product) bool { return a.CarbonImpact < b.CarbonImpact }
	case domain.SortCarbonDesc:
		less = func(a, b domain.Product) bool { return a.CarbonImpact > b.CarbonImpact }
	case domain.SortName:
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	default:
		less = func(a, b domain.Product) bool { return a.EcoScore > b.EcoScore }
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
