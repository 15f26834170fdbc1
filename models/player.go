package models

// Player is shared across all users and tournaments. Identity is the exact
// trimmed name; "John Smith" and "john smith" are two different players.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
