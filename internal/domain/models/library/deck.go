package library

import (
	"time"
)

type Deck struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	FolderID    *string   `json:"folder_id" db:"folder_id"` // NULL = root level
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CardCount   int       `json:"card_count"` // Computed, not stored
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
