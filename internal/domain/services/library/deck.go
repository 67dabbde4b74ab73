package library

import (
	"context"

	"cognicard/internal/domain/models/library"
	"cognicard/internal/httputil"
)

// DeckService handles deck business logic
type DeckService interface {
	ListDecks(ctx context.Context, userID string) ([]library.Deck, error)

	GetDeck(ctx context.Context, userID, deckID string) (*library.Deck, error)

	// CreateDeck creates a deck; sibling deck names must be unique ignoring case
	CreateDeck(ctx context.Context, req *CreateDeckRequest) (*library.Deck, error)

	// UpdateDeck renames, re-describes and/or moves a deck
	UpdateDeck(ctx context.Context, userID, deckID string, req *UpdateDeckRequest) (*library.Deck, error)

	DeleteDeck(ctx context.Context, userID, deckID string) error
}

// CreateDeckRequest represents a deck creation request
type CreateDeckRequest struct {
	UserID      string  `json:"-"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	FolderID    *string `json:"folder_id,omitempty"` // nil = root
}

// UpdateDeckRequest represents a deck update request.
// FolderID is tri-state like UpdateFolderRequest.ParentFolderID.
type UpdateDeckRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	FolderID    httputil.OptionalString `json:"folder_id,omitzero"`
}
