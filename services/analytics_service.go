package services

import (
	"context"
	"math"

	"github.com/jamietsang/courtlog/repositories"
)

// AnalyticsService computes derived statistics over the match graph. Every
// query recomputes from the stored rows: nothing here is cached or
// persisted, so statistics can never go stale at the cost of an O(matches)
// fold per request.
//
// The userID parameters scope aggregation to tournaments the user may see
// (owned plus shared-with); nil means no scope filter.
type AnalyticsService interface {
	PlayerStats(ctx context.Context, playerID int, userID *int) (*PlayerStats, error)
	AllPlayerStats(ctx context.Context, userID *int) ([]*PlayerStats, error)
	TournamentStats(ctx context.Context, tournamentID int, userID *int) (*TournamentStats, error)
	AllTournamentStats(ctx context.Context, userID *int) ([]*TournamentStats, error)
	HeadToHead(ctx context.Context, player1ID, player2ID int) (*HeadToHead, error)
	Dashboard(ctx context.Context, userID *int) (*Dashboard, error)
}

type analyticsService struct {
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
}

func NewAnalyticsService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
) AnalyticsService {
	return &analyticsService{
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

// round1 rounds to one decimal place, the precision every win rate and
// per-match average is reported at.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
