package models

import "time"

// SharedTournament grants another user read visibility into a tournament's
// matches and analytics. It never grants edit rights.
type SharedTournament struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	OwnerID      int       `json:"owner_id"`
	SharedWithID int       `json:"shared_with_id"`
	CreatedAt    time.Time `json:"created_at"`
}
