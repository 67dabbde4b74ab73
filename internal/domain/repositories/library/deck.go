package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// DeckRepository defines data access operations for decks
type DeckRepository interface {
	Create(ctx context.Context, deck *library.Deck) error

	GetByID(ctx context.Context, id, userID string) (*library.Deck, error)

	// Update saves name, description and folder changes
	Update(ctx context.Context, deck *library.Deck) error

	// Delete deletes a deck together with its cards and attempts
	Delete(ctx context.Context, id, userID string) error

	// ListByFolder lists decks directly inside a folder (nil = root)
	ListByFolder(ctx context.Context, folderID *string, userID string) ([]library.Deck, error)

	// ListByUser retrieves all decks for a user with card counts
	ListByUser(ctx context.Context, userID string) ([]library.Deck, error)
}
