package models

import (
	"strings"
	"time"
)

// Match stores both sides' raw set-score strings exactly as submitted,
// e.g. Score1 "21-19, 19-21, 21-18" / Score2 "19-21, 21-19, 18-21".
// Malformed tokens are tolerated here and absorbed by the scores package.
type Match struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	RoundName    string    `json:"round_name"`
	GroupName    *string   `json:"group_name,omitempty"`
	Team1ID      int       `json:"team1_id"`
	Team2ID      int       `json:"team2_id"`
	Score1       string    `json:"score1"`
	Score2       string    `json:"score2"`
	MatchType    string    `json:"match_type"`
	Timestamp    time.Time `json:"timestamp"`
}

// IsDoubles keys off the match-type label; doubles self-play validation
// applies only when the label ends with "Doubles".
func (m *Match) IsDoubles() bool {
	return strings.HasSuffix(m.MatchType, "Doubles")
}
