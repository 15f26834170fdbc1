package services

import (
	"context"
	"errors"
	"sort"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/scores"
)

// PlayerRef is a roster entry: just enough to link to the full record.
type PlayerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HighlightMatch is a match singled out by a tournament summary, carrying
// the metric it was selected on.
type HighlightMatch struct {
	MatchID     int    `json:"id"`
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
	Score1      string `json:"score1"`
	Score2      string `json:"score2"`
	Sets        int    `json:"sets,omitempty"`
	TotalPoints int    `json:"total_points,omitempty"`
}

// TournamentStats is the derived summary for one tournament.
type TournamentStats struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Location     string          `json:"location"`
	MatchCount   int             `json:"match_count"`
	PlayerCount  int             `json:"player_count"`
	MatchTypes   map[string]int  `json:"match_types"`
	Rounds       map[string]int  `json:"rounds"`
	LongestMatch *HighlightMatch `json:"longest_match"`
	HighestScore *HighlightMatch `json:"highest_score"`
	Players      []PlayerRef     `json:"players"`
}

// TournamentStats summarizes one tournament in the caller's scope.
// A tournament outside the scope reads the same as one that does not
// exist.
func (s *analyticsService) TournamentStats(ctx context.Context, tournamentID int, userID *int) (*TournamentStats, error) {
	visible, err := s.tournamentRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range visible {
		if t.ID == tournamentID {
			return s.summarize(ctx, t)
		}
	}
	return nil, ErrTournamentNotFound
}

// AllTournamentStats summarizes every tournament in scope, newest first.
func (s *analyticsService) AllTournamentStats(ctx context.Context, userID *int) ([]*TournamentStats, error) {
	visible, err := s.tournamentRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	// ListVisible already orders by date descending.
	all := make([]*TournamentStats, 0, len(visible))
	for _, t := range visible {
		stats, err := s.summarize(ctx, t)
		if err != nil {
			return nil, err
		}
		all = append(all, stats)
	}
	return all, nil
}

func (s *analyticsService) summarize(ctx context.Context, tournament *models.Tournament) (*TournamentStats, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, err
	}
	graph, err := loadMatchGraph(ctx, matches, s.teamRepo, s.playerRepo, s.tournamentRepo)
	if err != nil {
		return nil, err
	}

	location := ""
	if tournament.Location != nil {
		location = *tournament.Location
	}
	stats := &TournamentStats{
		ID:         tournament.ID,
		Name:       tournament.Name,
		Date:       tournament.Date.Format("2006-01-02"),
		Location:   location,
		MatchCount: len(matches),
		MatchTypes: make(map[string]int),
		Rounds:     make(map[string]int),
		Players:    []PlayerRef{},
	}

	rosterIDs := make(map[int]bool)
	longestSets := 0
	// Starting at zero means a tournament where no score parses reports no
	// highest-scoring match at all.
	highestPoints := 0

	for _, m := range matches {
		stats.MatchTypes[m.MatchType]++
		stats.Rounds[m.RoundName]++

		for _, teamID := range []int{m.Team1ID, m.Team2ID} {
			team, err := graph.team(teamID)
			if err != nil {
				return nil, err
			}
			for _, id := range team.PlayerIDs() {
				rosterIDs[id] = true
			}
		}

		// Both highlight metrics read score1 only; ties keep the first
		// match encountered.
		if sets := scores.SetCount(m.Score1); sets > longestSets {
			longestSets = sets
			highlight, err := s.highlight(graph, m)
			if err != nil {
				return nil, err
			}
			highlight.Sets = sets
			stats.LongestMatch = highlight
		}
		if points := scores.TotalPoints(m.Score1); points > highestPoints {
			highestPoints = points
			highlight, err := s.highlight(graph, m)
			if err != nil {
				return nil, err
			}
			highlight.TotalPoints = points
			stats.HighestScore = highlight
		}
	}

	for id := range rosterIDs {
		p, ok := graph.players[id]
		if !ok {
			return nil, errors.New("integrity violation: roster references missing player")
		}
		stats.Players = append(stats.Players, PlayerRef{ID: p.ID, Name: p.Name})
	}
	sort.Slice(stats.Players, func(i, j int) bool { return stats.Players[i].ID < stats.Players[j].ID })
	stats.PlayerCount = len(stats.Players)

	return stats, nil
}

func (s *analyticsService) highlight(graph *matchGraph, m *models.Match) (*HighlightMatch, error) {
	team1, err := graph.teamNames(m.Team1ID)
	if err != nil {
		return nil, err
	}
	team2, err := graph.teamNames(m.Team2ID)
	if err != nil {
		return nil, err
	}
	return &HighlightMatch{
		MatchID: m.ID,
		Team1:   team1,
		Team2:   team2,
		Score1:  m.Score1,
		Score2:  m.Score2,
	}, nil
}
