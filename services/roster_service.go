package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
)

// RosterService resolves submitted team rosters into Player and Team rows,
// creating them lazily the first time a name or pair appears. Both methods
// accept an SQLExecutor so submissions can run them inside their transaction.
type RosterService interface {
	// GetOrCreatePlayer trims the name and looks it up with an exact string
	// match. No case folding, no fuzziness: "john smith" and "John Smith"
	// are different players, resolved manually if that ever matters.
	GetOrCreatePlayer(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Player, error)
	// ProcessTeam parses "Name" or "Name1, Name2" into a deduplicated team.
	// A two-player team is unordered: "Alice, Bob" and "Bob, Alice" resolve
	// to the same row.
	ProcessTeam(ctx context.Context, exec repositories.SQLExecutor, roster string) (*models.Team, error)
}

type rosterService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewRosterService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) RosterService {
	return &rosterService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
	}
}

func (s *rosterService) GetOrCreatePlayer(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Player, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrRosterEmpty
	}

	player, err := s.playerRepo.GetByName(ctx, exec, trimmed)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to look up player %q: %w", trimmed, err)
	}

	player = &models.Player{Name: trimmed}
	if err := s.playerRepo.Create(ctx, exec, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *rosterService) ProcessTeam(ctx context.Context, exec repositories.SQLExecutor, roster string) (*models.Team, error) {
	names := strings.Split(roster, ",")

	player1, err := s.GetOrCreatePlayer(ctx, exec, names[0])
	if err != nil {
		return nil, err
	}

	var player2ID *int
	if len(names) > 1 && strings.TrimSpace(names[1]) != "" {
		player2, err := s.GetOrCreatePlayer(ctx, exec, names[1])
		if err != nil {
			return nil, err
		}
		player2ID = &player2.ID
	}

	team, err := s.teamRepo.FindByPair(ctx, exec, player1.ID, player2ID)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}

	team = &models.Team{Player1ID: player1.ID, Player2ID: player2ID}
	if err := s.teamRepo.Create(ctx, exec, team); err != nil {
		return nil, err
	}
	return team, nil
}

// ValidateMatchPlayers reports whether the two teams have disjoint player
// sets. Callers apply it to doubles match types only; a singles player
// facing themselves is impossible to submit through any current path.
func ValidateMatchPlayers(team1, team2 *models.Team) bool {
	for _, id := range team2.PlayerIDs() {
		if team1.Contains(id) {
			return false
		}
	}
	return true
}
