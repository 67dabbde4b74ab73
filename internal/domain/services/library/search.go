package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// SearchService searches a user's library
type SearchService interface {
	Search(ctx context.Context, userID string, req *SearchRequest) (*library.SearchResults, error)
}

// SearchRequest represents a library search request
type SearchRequest struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields,omitempty"` // "deck", "card" (default: both)
	DeckID *string  `json:"deck_id,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}
