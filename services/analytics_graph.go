package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
)

// matchGraph is the slice of the entity graph one aggregation pass needs:
// every team, player, and tournament referenced by a set of matches, loaded
// up front so the fold itself never touches the store.
type matchGraph struct {
	teams       map[int]*models.Team
	players     map[int]*models.Player
	tournaments map[int]*models.Tournament
}

// loadMatchGraph batch-loads the referenced rows. A match pointing at a
// missing team, player, or tournament is an integrity violation the schema
// should make impossible; lookups fail loudly instead of skipping.
func loadMatchGraph(
	ctx context.Context,
	matches []*models.Match,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
) (*matchGraph, error) {
	teamIDs := make(map[int]bool)
	tournamentIDs := make(map[int]bool)
	for _, m := range matches {
		teamIDs[m.Team1ID] = true
		teamIDs[m.Team2ID] = true
		tournamentIDs[m.TournamentID] = true
	}

	g := &matchGraph{
		teams:       make(map[int]*models.Team, len(teamIDs)),
		players:     make(map[int]*models.Player),
		tournaments: make(map[int]*models.Tournament, len(tournamentIDs)),
	}

	teams, err := teamRepo.ListByIDs(ctx, keys(teamIDs))
	if err != nil {
		return nil, err
	}
	playerIDs := make(map[int]bool)
	for _, t := range teams {
		g.teams[t.ID] = t
		for _, id := range t.PlayerIDs() {
			playerIDs[id] = true
		}
	}

	players, err := playerRepo.ListByIDs(ctx, keys(playerIDs))
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		g.players[p.ID] = p
	}

	tournaments, err := tournamentRepo.ListByIDs(ctx, keys(tournamentIDs))
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		g.tournaments[t.ID] = t
	}

	return g, nil
}

func (g *matchGraph) team(id int) (*models.Team, error) {
	t, ok := g.teams[id]
	if !ok {
		return nil, fmt.Errorf("integrity violation: match references missing team %d", id)
	}
	return t, nil
}

func (g *matchGraph) tournament(id int) (*models.Tournament, error) {
	t, ok := g.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("integrity violation: match references missing tournament %d", id)
	}
	return t, nil
}

// teamPlayers returns the team's players, slot order preserved.
func (g *matchGraph) teamPlayers(teamID int) ([]*models.Player, error) {
	t, err := g.team(teamID)
	if err != nil {
		return nil, err
	}
	players := make([]*models.Player, 0, 2)
	for _, id := range t.PlayerIDs() {
		p, ok := g.players[id]
		if !ok {
			return nil, fmt.Errorf("integrity violation: team %d references missing player %d", teamID, id)
		}
		players = append(players, p)
	}
	return players, nil
}

// teamNames renders a team as its players' names joined by ", ", the same
// format rosters are submitted in.
func (g *matchGraph) teamNames(teamID int) (string, error) {
	players, err := g.teamPlayers(teamID)
	if err != nil {
		return "", err
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, ", "), nil
}

func keys(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
