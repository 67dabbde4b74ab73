package library

import (
	"context"
	"time"

	"cognicard/internal/domain/models/library"
)

// AttemptRepository stores study attempts and the aggregates built on them
type AttemptRepository interface {
	Create(ctx context.Context, attempt *library.Attempt) error

	// StatsByDeck aggregates every attempt on a deck
	StatsByDeck(ctx context.Context, deckID, userID string) (*library.DeckStats, error)

	// ListCompletionTimes returns completion times of the user's attempts since the given time
	ListCompletionTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}
