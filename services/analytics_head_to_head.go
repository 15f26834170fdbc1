package services

import (
	"context"
	"errors"
	"sort"

	"github.com/jamietsang/courtlog/repositories"
	"github.com/jamietsang/courtlog/scores"
)

// HeadToHeadSide is one player's half of a head-to-head aggregate.
type HeadToHeadSide struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Wins        int    `json:"wins"`
	TotalPoints int    `json:"total_points"`
}

// VersusMatch is one qualifying match between the two players. WinnerID is
// nil when no winner could be resolved for the match.
type VersusMatch struct {
	MatchID    int    `json:"id"`
	Date       string `json:"date"`
	Tournament string `json:"tournament"`
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	Score1     string `json:"score1"`
	Score2     string `json:"score2"`
	WinnerID   *int   `json:"winner_id"`
	MatchType  string `json:"match_type"`
}

// HeadToHead aggregates every match where the two players met on opposing
// sides, directly or inside doubles teams.
type HeadToHead struct {
	Player1      HeadToHeadSide `json:"player1"`
	Player2      HeadToHeadSide `json:"player2"`
	Matches      []VersusMatch  `json:"matches"`
	TotalMatches int            `json:"total_matches"`
}

// HeadToHead tallies all meetings between two players. The match list is
// sorted by date descending; callers may truncate it for presentation
// without affecting the aggregate counts.
func (s *analyticsService) HeadToHead(ctx context.Context, player1ID, player2ID int) (*HeadToHead, error) {
	player1, err := s.playerRepo.GetByID(ctx, player1ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	player2, err := s.playerRepo.GetByID(ctx, player2ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	// A player accumulates team rows across their singles/doubles history;
	// a qualifying match pairs any team of one against any team of the other,
	// in either numbered slot.
	teams1, err := s.teamRepo.ListContainingPlayer(ctx, player1ID)
	if err != nil {
		return nil, err
	}
	teams2, err := s.teamRepo.ListContainingPlayer(ctx, player2ID)
	if err != nil {
		return nil, err
	}

	set1 := make(map[int]bool, len(teams1))
	ids1 := make([]int, 0, len(teams1))
	for _, t := range teams1 {
		set1[t.ID] = true
		ids1 = append(ids1, t.ID)
	}
	ids2 := make([]int, 0, len(teams2))
	for _, t := range teams2 {
		ids2 = append(ids2, t.ID)
	}

	matches, err := s.matchRepo.ListBetweenTeamSets(ctx, ids1, ids2)
	if err != nil {
		return nil, err
	}
	graph, err := loadMatchGraph(ctx, matches, s.teamRepo, s.playerRepo, s.tournamentRepo)
	if err != nil {
		return nil, err
	}

	result := &HeadToHead{
		Player1: HeadToHeadSide{ID: player1.ID, Name: player1.Name},
		Player2: HeadToHeadSide{ID: player2.ID, Name: player2.Name},
		Matches: []VersusMatch{},
	}

	for _, m := range matches {
		tournament, err := graph.tournament(m.TournamentID)
		if err != nil {
			return nil, err
		}
		team1Names, err := graph.teamNames(m.Team1ID)
		if err != nil {
			return nil, err
		}
		team2Names, err := graph.teamNames(m.Team2ID)
		if err != nil {
			return nil, err
		}

		player1OnTeam1 := set1[m.Team1ID]

		team1Points, team2Points := scores.SideTotals(m.Score1)
		if player1OnTeam1 {
			result.Player1.TotalPoints += team1Points
			result.Player2.TotalPoints += team2Points
		} else {
			result.Player1.TotalPoints += team2Points
			result.Player2.TotalPoints += team1Points
		}

		// The winner rules never leave a match undetermined today, but if
		// they ever do the match stays in the list with no win attributed.
		var winnerID *int
		switch outcome := scores.ResolveWinner(m.Score1, m.Score2); outcome {
		case scores.Team1, scores.Team2:
			winner := &result.Player2
			if (outcome == scores.Team1) == player1OnTeam1 {
				winner = &result.Player1
			}
			winner.Wins++
			winnerID = &winner.ID
		}

		result.Matches = append(result.Matches, VersusMatch{
			MatchID:    m.ID,
			Date:       m.Timestamp.Format("2006-01-02"),
			Tournament: tournament.Name,
			Team1:      team1Names,
			Team2:      team2Names,
			Score1:     m.Score1,
			Score2:     m.Score2,
			WinnerID:   winnerID,
			MatchType:  m.MatchType,
		})
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Date > result.Matches[j].Date
	})
	result.TotalMatches = len(result.Matches)
	return result, nil
}
