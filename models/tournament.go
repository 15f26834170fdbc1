package models

import "time"

// Tournament is owned by the user who submitted it. Deleting a tournament
// deletes its matches (ON DELETE CASCADE).
type Tournament struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `json:"user_id"`
}
