package models

// Team is one or two players competing as a unit. Player2ID is nil for
// singles. Two-player teams are unordered: (A,B) and (B,A) resolve to the
// same row, enforced by the find-or-create lookup in the roster service.
type Team struct {
	ID        int  `json:"id"`
	Player1ID int  `json:"player1_id"`
	Player2ID *int `json:"player2_id,omitempty"`
}

// PlayerIDs returns the ids on this team, one entry for singles.
func (t *Team) PlayerIDs() []int {
	ids := []int{t.Player1ID}
	if t.Player2ID != nil {
		ids = append(ids, *t.Player2ID)
	}
	return ids
}

// Contains reports whether the player is on this team.
func (t *Team) Contains(playerID int) bool {
	if t.Player1ID == playerID {
		return true
	}
	return t.Player2ID != nil && *t.Player2ID == playerID
}
