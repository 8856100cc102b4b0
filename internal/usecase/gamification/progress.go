package gamification

import (
	"math"

	"github.com/Pesokrava/ecocart/internal/domain"
)

// Level progression constants
const (
	KgPerLevel  = 10
	XPPerKg     = 100
	NextLevelXP = 1000
	KgPerBadge  = 5
)

// Display names of entries without a signed-in user. A shopper sees their own
// entry as YouName; other anonymous shoppers appear as AnonymousName.
const (
	YouName       = "You"
	AnonymousName = "Eco Shopper"
)

// Stats is the dashboard view of a shopper's progress
type Stats struct {
	CarbonSaved     float64 `json:"carbon_saved"`
	ProductsBought  int     `json:"products_bought"`
	TotalSpent      float64 `json:"total_spent"`
	AverageEcoScore float64 `json:"average_eco_score"`
	Level           int     `json:"level"`
	XP              float64 `json:"xp"`
	NextLevelXP     int     `json:"next_level_xp"`
	Rank            int     `json:"rank"`
	BadgesUnlocked  int     `json:"badges_unlocked"`
}

// BadgeStatus is a badge together with the shopper's progress towards it
type BadgeStatus struct {
	domain.Badge
	Unlocked bool    `json:"unlocked"`
	Progress float64 `json:"progress"`
}

// Level returns the level reached with saved kilograms of carbon
func Level(saved float64) int {
	return int(math.Floor(saved/KgPerLevel)) + 1
}

// XP returns the experience points earned inside the current level
func XP(saved float64) float64 {
	return math.Mod(saved, KgPerLevel) * XPPerKg
}

// Rank estimates the global rank for a carbon total
func Rank(saved float64) int {
	rank := 11 - int(math.Floor(saved/KgPerLevel))
	if rank < 1 {
		return 1
	}
	return rank
}

// BadgeCount is the number of badges credited on the leaderboard
func BadgeCount(saved float64) int {
	n := int(math.Floor(saved / KgPerBadge))
	if n < 0 {
		return 0
	}
	return n
}

// Statuses evaluates every badge against the state
func Statuses(state domain.AppState, badges []domain.Badge) []BadgeStatus {
	totalItems := float64(state.TotalItems())
	avgEco := state.AverageEcoScore()

	out := make([]BadgeStatus, 0, len(badges))
	for _, b := range badges {
		var value float64
		status := BadgeStatus{Badge: b}

		switch b.Type {
		case domain.BadgeCarbonSaved:
			value = state.TotalCarbonSaved
		case domain.BadgeProductsBought:
			value = totalItems
		case domain.BadgeEcoScore:
			value = avgEco
		case domain.BadgeSpecial:
			if b.ID == "early_adopter" {
				status.Unlocked = true
				status.Progress = 1
			}
			out = append(out, status)
			continue
		default:
			out = append(out, status)
			continue
		}

		status.Unlocked = value >= b.Requirement
		if b.Requirement > 0 {
			status.Progress = math.Max(0, math.Min(value/b.Requirement, 1))
		} else {
			status.Progress = 1
		}
		out = append(out, status)
	}
	return out
}

// Compute builds the dashboard statistics
func Compute(state domain.AppState, badges []domain.Badge) Stats {
	spent := 0.0
	for _, item := range state.Cart {
		spent += item.Price * float64(item.Quantity)
	}

	unlocked := 0
	for _, s := range Statuses(state, badges) {
		if s.Unlocked {
			unlocked++
		}
	}

	return Stats{
		CarbonSaved:     state.TotalCarbonSaved,
		ProductsBought:  state.TotalItems(),
		TotalSpent:      spent,
		AverageEcoScore: state.AverageEcoScore(),
		Level:           Level(state.TotalCarbonSaved),
		XP:              XP(state.TotalCarbonSaved),
		NextLevelXP:     NextLevelXP,
		Rank:            Rank(state.TotalCarbonSaved),
		BadgesUnlocked:  unlocked,
	}
}

// Standing builds the leaderboard entry of a session
func Standing(sessionID string, user *domain.User, saved float64) domain.LeaderboardEntry {
	entry := domain.LeaderboardEntry{
		ID:          sessionID,
		Name:        YouName,
		CarbonSaved: saved,
		Level:       Level(saved),
		Badges:      BadgeCount(saved),
		Rank:        Rank(saved),
	}
	if user != nil {
		entry.Name = user.Name
		entry.Avatar = user.Avatar
	}
	return entry
}
