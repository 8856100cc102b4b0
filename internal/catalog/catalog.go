// Package catalog provides the two fixed product tables and the static
// reference data (badges, leaderboard, tips, delivery options) the storefront
// is built on.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Pesokrava/ecocart/internal/domain"
)

//go:embed data/*.yaml
var dataFS embed.FS

type productTables struct {
	Conventional []domain.Product `yaml:"conventional"`
	Eco          []domain.Product `yaml:"eco"`
}

type badgeTable struct {
	Badges []domain.Badge `yaml:"badges"`
}

type leaderboardTable struct {
	Leaderboard []domain.LeaderboardEntry `yaml:"leaderboard"`
}

type tipTable struct {
	Tips []domain.Tip `yaml:"tips"`
}

type deliveryTable struct {
	DeliveryOptions []domain.DeliveryOption `yaml:"delivery_options"`
}

// Provider holds the catalog tables. It is immutable after construction and
// safe for concurrent use; every accessor returns a copy.
type Provider struct {
	conventional []domain.Product
	eco          []domain.Product
	byID         map[string]domain.Product
	badges       []domain.Badge
	leaderboard  []domain.LeaderboardEntry
	tips         []domain.Tip
	delivery     []domain.DeliveryOption
}

// Load builds a Provider from the embedded data set
func Load() (*Provider, error) {
	var products productTables
	if err := decode("data/products.yaml", &products); err != nil {
		return nil, err
	}
	var badges badgeTable
	if err := decode("data/badges.yaml", &badges); err != nil {
		return nil, err
	}
	var board leaderboardTable
	if err := decode("data/leaderboard.yaml", &board); err != nil {
		return nil, err
	}
	var tips tipTable
	if err := decode("data/tips.yaml", &tips); err != nil {
		return nil, err
	}
	var delivery deliveryTable
	if err := decode("data/delivery.yaml", &delivery); err != nil {
		return nil, err
	}

	return New(products.Conventional, products.Eco, Reference{
		Badges:          badges.Badges,
		Leaderboard:     board.Leaderboard,
		Tips:            tips.Tips,
		DeliveryOptions: delivery.DeliveryOptions,
	})
}

// MustLoad is like Load but panics on error. The data is compiled into the
// binary, so a failure here is a build defect.
func MustLoad() *Provider {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Reference groups the static tables that accompany the product catalog
type Reference struct {
	Badges          []domain.Badge
	Leaderboard     []domain.LeaderboardEntry
	Tips            []domain.Tip
	DeliveryOptions []domain.DeliveryOption
}

// New builds a Provider from explicit tables. The two product tables must be
// disjoint by product ID.
func New(conventional, eco []domain.Product, ref Reference) (*Provider, error) {
	byID := make(map[string]domain.Product, len(conventional)+len(eco))
	for _, table := range [][]domain.Product{conventional, eco} {
		for _, p := range table {
			if p.ID == "" {
				return nil, fmt.Errorf("catalog product %q has no id: %w", p.Name, domain.ErrInvalidInput)
			}
			if _, dup := byID[p.ID]; dup {
				return nil, fmt.Errorf("duplicate catalog product id %q: %w", p.ID, domain.ErrInvalidInput)
			}
			byID[p.ID] = p.Clone()
		}
	}

	return &Provider{
		conventional: domain.CloneProducts(conventional),
		eco:          domain.CloneProducts(eco),
		byID:         byID,
		badges:       append([]domain.Badge(nil), ref.Badges...),
		leaderboard:  append([]domain.LeaderboardEntry(nil), ref.Leaderboard...),
		tips:         append([]domain.Tip(nil), ref.Tips...),
		delivery:     append([]domain.DeliveryOption(nil), ref.DeliveryOptions...),
	}, nil
}

func decode(path string, v interface{}) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Products returns the table for the given catalog mode
func (p *Provider) Products(eco bool) []domain.Product {
	if eco {
		return domain.CloneProducts(p.eco)
	}
	return domain.CloneProducts(p.conventional)
}

// Find looks a product up by ID across both tables
func (p *Provider) Find(id string) (domain.Product, error) {
	product, ok := p.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product.Clone(), nil
}

// Categories returns the sorted set of category tags across both tables
func (p *Provider) Categories() []string {
	seen := make(map[string]struct{})
	for _, product := range p.byID {
		seen[product.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Badges returns the badge definitions
func (p *Provider) Badges() []domain.Badge {
	return append([]domain.Badge(nil), p.badges...)
}

// Leaderboard returns the static leaderboard
func (p *Provider) Leaderboard() []domain.LeaderboardEntry {
	return append([]domain.LeaderboardEntry(nil), p.leaderboard...)
}

// Tips returns the sustainability tips
func (p *Provider) Tips() []domain.Tip {
	return append([]domain.Tip(nil), p.tips...)
}

// DeliveryOptions returns the checkout delivery choices
func (p *Provider) DeliveryOptions() []domain.DeliveryOption {
	return append([]domain.DeliveryOption(nil), p.delivery...)
}

// DeliveryOption looks a delivery option up by ID
func (p *Provider) DeliveryOption(id string) (domain.DeliveryOption, error) {
	for _, opt := range p.delivery {
		if opt.ID == id {
			return opt, nil
		}
	}
	return domain.DeliveryOption{}, domain.ErrNotFound
}
