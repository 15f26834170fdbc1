package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/scores"
)

const recentMatchLimit = 5

// MatchTypeStats is a player's record within one match-type label.
type MatchTypeStats struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// RecentMatch is one entry of a player's recent-match list.
type RecentMatch struct {
	MatchID    int    `json:"id"`
	Tournament string `json:"tournament"`
	Date       string `json:"date"`
	Opponent   string `json:"opponent"`
	Result     string `json:"result"`
	Score      string `json:"score"`
}

// PlayerStats is the full derived record for one player.
type PlayerStats struct {
	ID             int                        `json:"id"`
	Name           string                     `json:"name"`
	Matches        int                        `json:"matches"`
	Wins           int                        `json:"wins"`
	Losses         int                        `json:"losses"`
	WinRate        float64                    `json:"win_rate"`
	PointsScored   int                        `json:"points_scored"`
	PointsConceded int                        `json:"points_conceded"`
	MatchTypes     map[string]*MatchTypeStats `json:"match_types"`
	RecentMatches  []RecentMatch              `json:"recent_matches"`
}

// PlayerStats returns one player's aggregate. A player who exists but has
// no matches in scope gets a zero-initialized record, not a not-found.
func (s *analyticsService) PlayerStats(ctx context.Context, playerID int, userID *int) (*PlayerStats, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	byPlayer, err := s.aggregatePlayers(ctx, userID, player)
	if err != nil {
		return nil, err
	}
	return byPlayer[playerID], nil
}

// AllPlayerStats returns every player touched by a match in scope, sorted
// by win rate descending. Zero-match players sort last; ties keep their
// accumulation order.
func (s *analyticsService) AllPlayerStats(ctx context.Context, userID *int) ([]*PlayerStats, error) {
	byPlayer, err := s.aggregatePlayers(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	all := make([]*PlayerStats, 0, len(byPlayer))
	for _, stats := range byPlayer {
		all = append(all, stats)
	}
	// Map iteration order is random; fix it before the win-rate sort so the
	// "arbitrary but stable" tie order is reproducible run to run.
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	sort.SliceStable(all, func(i, j int) bool { return all[i].WinRate > all[j].WinRate })
	return all, nil
}

// aggregatePlayers folds every match in scope into per-player records.
// seed, when non-nil, guarantees a record for that player even if nothing
// in scope touches them.
func (s *analyticsService) aggregatePlayers(ctx context.Context, userID *int, seed *models.Player) (map[int]*PlayerStats, error) {
	matches, err := s.matchRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	graph, err := loadMatchGraph(ctx, matches, s.teamRepo, s.playerRepo, s.tournamentRepo)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int]*PlayerStats)
	record := func(p *models.Player) *PlayerStats {
		stats, ok := byPlayer[p.ID]
		if !ok {
			stats = &PlayerStats{
				ID:            p.ID,
				Name:          p.Name,
				MatchTypes:    make(map[string]*MatchTypeStats),
				RecentMatches: []RecentMatch{},
			}
			byPlayer[p.ID] = stats
		}
		return stats
	}

	if seed != nil {
		record(seed)
	}

	for _, m := range matches {
		team1Players, err := graph.teamPlayers(m.Team1ID)
		if err != nil {
			return nil, err
		}
		team2Players, err := graph.teamPlayers(m.Team2ID)
		if err != nil {
			return nil, err
		}
		tournament, err := graph.tournament(m.TournamentID)
		if err != nil {
			return nil, err
		}

		outcome := scores.ResolveWinner(m.Score1, m.Score2)
		if outcome == scores.Undetermined {
			// Unreachable under the current winner rules; kept so a future
			// rule change cannot silently mis-attribute wins.
			continue
		}
		team1Won := outcome == scores.Team1

		// Each side's point totals come from its own score string, but when
		// the score2-derived totals sum higher the entry was likely swapped,
		// so the larger reading wins. A heuristic, not a guarantee.
		team1Points, team2Points := scores.SideTotals(m.Score1)
		team2Alt, team1Alt := scores.SideTotals(m.Score2)
		if team1Points+team2Points < team1Alt+team2Alt {
			team1Points, team2Points = team1Alt, team2Alt
		}

		date := m.Timestamp.Format("2006-01-02")
		accumulate(record, team1Players, team2Players, m, tournament.Name, date, team1Won, team1Points, team2Points, m.Score1)
		accumulate(record, team2Players, team1Players, m, tournament.Name, date, !team1Won, team2Points, team1Points, m.Score2)
	}

	for _, stats := range byPlayer {
		finalizePlayerStats(stats)
	}
	return byPlayer, nil
}

// accumulate applies one match to every player on one side.
func accumulate(
	record func(*models.Player) *PlayerStats,
	sidePlayers, opponents []*models.Player,
	m *models.Match,
	tournamentName, date string,
	won bool,
	pointsScored, pointsConceded int,
	sideScore string,
) {
	opponentNames := make([]string, len(opponents))
	for i, p := range opponents {
		opponentNames[i] = p.Name
	}
	opponent := strings.Join(opponentNames, ", ")

	result := "Loss"
	if won {
		result = "Win"
	}

	score := sideScore
	if score == "" {
		score = "N/A"
	}

	for _, p := range sidePlayers {
		stats := record(p)
		stats.Matches++
		if won {
			stats.Wins++
		} else {
			stats.Losses++
		}
		stats.PointsScored += pointsScored
		stats.PointsConceded += pointsConceded

		typeStats, ok := stats.MatchTypes[m.MatchType]
		if !ok {
			typeStats = &MatchTypeStats{}
			stats.MatchTypes[m.MatchType] = typeStats
		}
		typeStats.Matches++
		if won {
			typeStats.Wins++
		}

		stats.RecentMatches = append(stats.RecentMatches, RecentMatch{
			MatchID:    m.ID,
			Tournament: tournamentName,
			Date:       date,
			Opponent:   opponent,
			Result:     result,
			Score:      score,
		})
	}
}

func finalizePlayerStats(stats *PlayerStats) {
	if stats.Matches == 0 {
		return
	}
	stats.WinRate = round1(float64(stats.Wins) / float64(stats.Matches) * 100)

	for _, typeStats := range stats.MatchTypes {
		if typeStats.Matches > 0 {
			typeStats.WinRate = round1(float64(typeStats.Wins) / float64(typeStats.Matches) * 100)
		}
	}

	sort.SliceStable(stats.RecentMatches, func(i, j int) bool {
		return stats.RecentMatches[i].Date > stats.RecentMatches[j].Date
	})
	if len(stats.RecentMatches) > recentMatchLimit {
		stats.RecentMatches = stats.RecentMatches[:recentMatchLimit]
	}
}
