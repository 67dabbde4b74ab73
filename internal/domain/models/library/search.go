package library

import (
	"fmt"
)

// SearchField defines which library fields to search
type SearchField string

const (
	// SearchFieldDeckName matches deck names and descriptions
	SearchFieldDeckName SearchField = "deck"

	// SearchFieldCardText matches the front and back of cards
	SearchFieldCardText SearchField = "card"
)

// Default search configuration values
const (
	DefaultSearchLimit  = 20
	DefaultSearchOffset = 0
	MaxSearchLimit      = 100
)

// SearchOptions configures a library search
type SearchOptions struct {
	// Query is the search string (required)
	Query string

	// UserID scopes results to one user's library
	UserID string

	// Fields specifies what to search
	// Default: [SearchFieldDeckName, SearchFieldCardText]
	Fields []SearchField

	// Pagination
	Limit  int
	Offset int

	// DeckID optionally limits card matches to one deck
	DeckID *string
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if len(opts.Fields) == 0 {
		opts.Fields = []SearchField{SearchFieldDeckName, SearchFieldCardText}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = DefaultSearchOffset
	}
}

// Validate checks that required fields are set and values are reasonable
func (opts *SearchOptions) Validate() error {
	if opts.Query == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}

	for _, field := range opts.Fields {
		switch field {
		case SearchFieldDeckName, SearchFieldCardText:
		default:
			return fmt.Errorf("invalid search field: %q (supported: deck, card)", field)
		}
	}

	return nil
}

// Searches reports whether field is enabled
func (opts *SearchOptions) Searches(field SearchField) bool {
	for _, f := range opts.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// SearchResult is a single deck or card match
type SearchResult struct {
	Kind    string `json:"kind"` // "deck" or "card"
	ID      string `json:"id"`
	DeckID  string `json:"deck_id"`
	Title   string `json:"title"`   // Deck name, or card front
	Snippet string `json:"snippet"` // Deck description, or card back
}

// SearchResults contains the full search response with pagination metadata
type SearchResults struct {
	Results    []SearchResult `json:"results"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
}

// NewSearchResults creates a SearchResults with calculated HasMore flag
func NewSearchResults(results []SearchResult, totalCount int, opts *SearchOptions) *SearchResults {
	if results == nil {
		results = []SearchResult{}
	}
	return &SearchResults{
		Results:    results,
		TotalCount: totalCount,
		HasMore:    (opts.Offset + len(results)) < totalCount,
		Offset:     opts.Offset,
		Limit:      opts.Limit,
	}
}
