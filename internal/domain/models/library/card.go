package library

import (
	"time"
)

type Card struct {
	ID        string    `json:"id" db:"id"`
	DeckID    string    `json:"deck_id" db:"deck_id"`
	Front     string    `json:"front" db:"front"`
	Back      string    `json:"back" db:"back"`
	Position  int       `json:"position" db:"position"` // Order within the deck
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
