package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/scores"
)

// MatchInput is one match row of a submission.
type MatchInput struct {
	Round     string `json:"round"`
	Group     string `json:"group"`
	Team1     string `json:"team1"`
	Team2     string `json:"team2"`
	Score1    string `json:"score1"`
	Score2    string `json:"score2"`
	MatchType string `json:"match_type"`
}

// SubmitResultsInput creates a tournament and its matches in one shot.
type SubmitResultsInput struct {
	TournamentName string       `json:"tournament_name"`
	Date           time.Time    `json:"date"`
	Location       string       `json:"location"`
	Matches        []MatchInput `json:"matches"`
}

// UpdateMatchInput replaces an existing match's fields.
type UpdateMatchInput struct {
	TournamentID int    `json:"tournament_id"`
	Round        string `json:"round"`
	Group        string `json:"group"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	Score1       string `json:"score1"`
	Score2       string `json:"score2"`
	MatchType    string `json:"match_type"`
}

// MatchView is a match annotated for listing: resolved team names and the
// winning side's roster string.
type MatchView struct {
	ID           int     `json:"id"`
	Tournament   string  `json:"tournament"`
	TournamentID int     `json:"tournament_id"`
	Date         string  `json:"date"`
	Round        string  `json:"round"`
	Group        *string `json:"group,omitempty"`
	Team1        string  `json:"team1"`
	Team2        string  `json:"team2"`
	Score1       string  `json:"score1"`
	Score2       string  `json:"score2"`
	MatchType    string  `json:"match_type"`
	Winner       string  `json:"winner"`
}

// ListMatchesFilter narrows ListMatches output.
type ListMatchesFilter struct {
	TournamentID *int
	// PlayerName matches any player whose name contains the string.
	PlayerName string
}

// ResultService owns every write path for tournaments and matches. All
// multi-row writes run in a single transaction: a doubles violation or any
// persistence failure rolls back the whole submission.
type ResultService interface {
	SubmitResults(ctx context.Context, userID int, input SubmitResultsInput) (*models.Tournament, error)
	ListMatches(ctx context.Context, userID int, filter ListMatchesFilter) ([]MatchView, error)
	UpdateMatch(ctx context.Context, userID, matchID int, input UpdateMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, userID, matchID int) error
	ListTournaments(ctx context.Context, userID int) ([]*models.Tournament, error)
	DeleteTournament(ctx context.Context, userID, tournamentID int) error
}

type resultService struct {
	db             TxBeginner
	roster         RosterService
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
}

func NewResultService(
	db TxBeginner,
	roster RosterService,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
) ResultService {
	return &resultService{
		db:             db,
		roster:         roster,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

func (s *resultService) SubmitResults(ctx context.Context, userID int, input SubmitResultsInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.TournamentName) == "" || input.Date.IsZero() {
		return nil, ErrTournamentDetailsRequired
	}
	if len(input.Matches) == 0 {
		return nil, ErrNoMatchesSubmitted
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin submission transaction: %w", err)
	}
	defer tx.Rollback()

	var location *string
	if input.Location != "" {
		location = &input.Location
	}
	tournament := &models.Tournament{
		Name:     strings.TrimSpace(input.TournamentName),
		Date:     input.Date,
		Location: location,
		UserID:   userID,
	}
	if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
		return nil, err
	}

	for i, row := range input.Matches {
		if _, err := s.createMatch(ctx, tx, tournament.ID, row, i); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}
	return tournament, nil
}

// createMatch resolves both rosters, applies the doubles self-play check,
// and inserts the match. index is zero-based; error messages report the
// human 1-based position.
func (s *resultService) createMatch(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, row MatchInput, index int) (*models.Match, error) {
	team1, err := s.roster.ProcessTeam(ctx, exec, row.Team1)
	if err != nil {
		return nil, fmt.Errorf("match #%d: %w", index+1, err)
	}
	team2, err := s.roster.ProcessTeam(ctx, exec, row.Team2)
	if err != nil {
		return nil, fmt.Errorf("match #%d: %w", index+1, err)
	}

	var group *string
	if row.Group != "" {
		group = &row.Group
	}
	match := &models.Match{
		TournamentID: tournamentID,
		RoundName:    row.Round,
		GroupName:    group,
		Team1ID:      team1.ID,
		Team2ID:      team2.ID,
		Score1:       row.Score1,
		Score2:       row.Score2,
		MatchType:    row.MatchType,
	}
	if match.IsDoubles() && !ValidateMatchPlayers(team1, team2) {
		return nil, fmt.Errorf("%w (in match #%d)", ErrPlayerBothSides, index+1)
	}
	if err := s.matchRepo.Create(ctx, exec, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *resultService) ListMatches(ctx context.Context, userID int, filter ListMatchesFilter) ([]MatchView, error) {
	matches, err := s.matchRepo.ListVisible(ctx, &userID)
	if err != nil {
		return nil, err
	}

	if filter.TournamentID != nil {
		filtered := matches[:0]
		for _, m := range matches {
			if m.TournamentID == *filter.TournamentID {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	graph, err := loadMatchGraph(ctx, matches, s.teamRepo, s.playerRepo, s.tournamentRepo)
	if err != nil {
		return nil, err
	}

	if filter.PlayerName != "" {
		filtered := matches[:0]
		for _, m := range matches {
			names1, err := graph.teamNames(m.Team1ID)
			if err != nil {
				return nil, err
			}
			names2, err := graph.teamNames(m.Team2ID)
			if err != nil {
				return nil, err
			}
			if strings.Contains(names1, filter.PlayerName) || strings.Contains(names2, filter.PlayerName) {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		team1Names, err := graph.teamNames(m.Team1ID)
		if err != nil {
			return nil, err
		}
		team2Names, err := graph.teamNames(m.Team2ID)
		if err != nil {
			return nil, err
		}
		tournament, err := graph.tournament(m.TournamentID)
		if err != nil {
			return nil, err
		}

		winner := team2Names
		if scores.ResolveWinner(m.Score1, m.Score2) == scores.Team1 {
			winner = team1Names
		}

		views = append(views, MatchView{
			ID:           m.ID,
			Tournament:   tournament.Name,
			TournamentID: tournament.ID,
			Date:         m.Timestamp.Format("2006-01-02"),
			Round:        m.RoundName,
			Group:        m.GroupName,
			Team1:        team1Names,
			Team2:        team2Names,
			Score1:       m.Score1,
			Score2:       m.Score2,
			MatchType:    m.MatchType,
			Winner:       winner,
		})
	}
	return views, nil
}

func (s *resultService) UpdateMatch(ctx context.Context, userID, matchID int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetOwned(ctx, matchID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	// The target tournament must also belong to the caller; a match cannot
	// be moved into someone else's tournament.
	if _, err := s.tournamentRepo.GetOwned(ctx, input.TournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin match update transaction: %w", err)
	}
	defer tx.Rollback()

	team1, err := s.roster.ProcessTeam(ctx, tx, input.Team1)
	if err != nil {
		return nil, err
	}
	team2, err := s.roster.ProcessTeam(ctx, tx, input.Team2)
	if err != nil {
		return nil, err
	}

	var group *string
	if input.Group != "" {
		group = &input.Group
	}
	// Work on a copy so an aborted edit never leaks half-applied fields.
	updated := *match
	updated.TournamentID = input.TournamentID
	updated.RoundName = input.Round
	updated.GroupName = group
	updated.Team1ID = team1.ID
	updated.Team2ID = team2.ID
	updated.Score1 = input.Score1
	updated.Score2 = input.Score2
	updated.MatchType = input.MatchType

	if updated.IsDoubles() && !ValidateMatchPlayers(team1, team2) {
		return nil, ErrPlayerBothSides
	}

	// The update rides the same transaction that created any new
	// players/teams for the edit.
	if err := s.matchRepo.Update(ctx, tx, &updated); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match update: %w", err)
	}
	return &updated, nil
}

func (s *resultService) DeleteMatch(ctx context.Context, userID, matchID int) error {
	if _, err := s.matchRepo.GetOwned(ctx, matchID, userID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (s *resultService) ListTournaments(ctx context.Context, userID int) ([]*models.Tournament, error) {
	return s.tournamentRepo.ListVisible(ctx, &userID)
}

func (s *resultService) DeleteTournament(ctx context.Context, userID, tournamentID int) error {
	if _, err := s.tournamentRepo.GetOwned(ctx, tournamentID, userID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	// Matches cascade at the storage layer.
	if err := s.tournamentRepo.Delete(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}
