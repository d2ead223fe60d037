package models

import "time"

// PlayerProfile is the persisted record of a nickname. It carries no match state.
type PlayerProfile struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Joins     int       `json:"joins"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}
