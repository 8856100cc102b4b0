package gamification

import (
	"context"
	"sort"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
)

// BoardSize is the number of entries shown on the leaderboard
const BoardSize = 10

// Board is the leaderboard as seen by one shopper
type Board struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
	You     domain.LeaderboardEntry   `json:"you"`
}

// Service merges the static leaderboard with live standings
type Service struct {
	static    []domain.LeaderboardEntry
	standings domain.StandingRepository
	logger    *logger.Logger
}

// NewService creates a leaderboard service. standings may be nil, in which
// case only the static board is shown.
func NewService(static []domain.LeaderboardEntry, standings domain.StandingRepository, log *logger.Logger) *Service {
	return &Service{
		static:    append([]domain.LeaderboardEntry(nil), static...),
		standings: standings,
		logger:    log,
	}
}

// Leaderboard returns the top entries, with the caller's live entry included
// when it ranks among them
func (s *Service) Leaderboard(ctx context.Context, you domain.LeaderboardEntry) Board {
	byID := make(map[string]domain.LeaderboardEntry, len(s.static)+BoardSize+1)
	for _, e := range s.static {
		byID[e.ID] = e
	}

	if s.standings != nil {
		live, err := s.standings.Top(ctx, BoardSize)
		if err != nil {
			s.logger.Warnf("Failed to load live standings: %v", err)
		}
		for _, e := range live {
			entry := *e
			if entry.Name == "" || entry.Name == YouName {
				entry.Name = AnonymousName
			}
			byID[entry.ID] = entry
		}
	}

	you.Current = true
	byID[you.ID] = you

	entries := make([]domain.LeaderboardEntry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CarbonSaved != entries[j].CarbonSaved {
			return entries[i].CarbonSaved > entries[j].CarbonSaved
		}
		return entries[i].ID < entries[j].ID
	})

	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].Current {
			you.Rank = entries[i].Rank
		}
	}
	if len(entries) > BoardSize {
		entries = entries[:BoardSize]
	}

	return Board{Entries: entries, You: you}
}
