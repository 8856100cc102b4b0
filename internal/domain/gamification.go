package domain

// BadgeType is the statistic a badge requirement is measured against
type BadgeType string

const (
	BadgeCarbonSaved    BadgeType = "carbon_saved"
	BadgeProductsBought BadgeType = "products_bought"
	BadgeEcoScore       BadgeType = "eco_score"
	BadgeStreak         BadgeType = "streak"
	BadgeSpecial        BadgeType = "special"
)

// Badge is an achievement a shopper can unlock
type Badge struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Requirement float64   `json:"requirement" yaml:"requirement"`
	Type        BadgeType `json:"type" yaml:"type"`
	Rarity      string    `json:"rarity" yaml:"rarity"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	ID          string  `json:"id" yaml:"id" db:"session_id"`
	Name        string  `json:"name" yaml:"name" db:"name"`
	Avatar      string  `json:"avatar,omitempty" yaml:"avatar,omitempty" db:"avatar"`
	CarbonSaved float64 `json:"carbon_saved" yaml:"carbon_saved" db:"carbon_saved"`
	Level       int     `json:"level" yaml:"level" db:"level"`
	Badges      int     `json:"badges" yaml:"badges" db:"badges"`
	Rank        int     `json:"rank" yaml:"rank" db:"-"`
	Current     bool    `json:"current,omitempty" yaml:"-" db:"-"`
}

// Tip is a sustainability shopping tip
type Tip struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Impact      string `json:"impact" yaml:"impact"`
}

// DeliveryOption is a shipping choice offered at checkout
type DeliveryOption struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Time            string  `json:"time" yaml:"time"`
	Price           float64 `json:"price" yaml:"price"`
	CarbonReduction float64 `json:"carbon_reduction" yaml:"carbon_reduction"`
	Description     string  `json:"description" yaml:"description"`
}
