package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// CardRepository defines data access operations for cards.
// Ownership is checked through the parent deck.
type CardRepository interface {
	// Create appends a card to the end of its deck
	Create(ctx context.Context, card *library.Card) error

	// CreateBatch appends cards in order, assigning consecutive positions
	CreateBatch(ctx context.Context, cards []*library.Card) error

	// GetByIDOnly retrieves a card without ownership scoping (for authorization)
	GetByIDOnly(ctx context.Context, id string) (*library.Card, error)

	ListByDeck(ctx context.Context, deckID string) ([]library.Card, error)

	Delete(ctx context.Context, id string) error
}
