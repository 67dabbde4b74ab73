package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// SearchRepository runs text searches across a user's decks and cards
type SearchRepository interface {
	Search(ctx context.Context, opts *library.SearchOptions) (*library.SearchResults, error)
}
