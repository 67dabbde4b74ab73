package library

import (
	"context"
	"io"

	"cognicard/internal/domain/models/library"
)

// CardService handles card business logic
type CardService interface {
	ListCards(ctx context.Context, userID, deckID string) ([]library.Card, error)

	CreateCard(ctx context.Context, req *CreateCardRequest) (*library.Card, error)

	DeleteCard(ctx context.Context, userID, cardID string) error

	// ImportCSV maps CSV columns onto card sides and appends the rows to a deck
	ImportCSV(ctx context.Context, req *ImportCSVRequest, csvData io.Reader) (*ImportResult, error)
}

// CreateCardRequest represents a card creation request
type CreateCardRequest struct {
	UserID string `json:"-"`
	DeckID string `json:"-"` // From the URL
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// ImportCSVRequest describes how to read an uploaded CSV.
// Nil column indexes are detected from the header row.
type ImportCSVRequest struct {
	UserID      string
	DeckID      string
	FrontColumn *int  // Zero-based
	BackColumn  *int  // Zero-based
	HasHeader   *bool // nil = detect
}

// ImportResult reports what an import did
type ImportResult struct {
	Mapping ColumnMapping  `json:"mapping"`
	Summary ImportSummary  `json:"summary"`
	Errors  []ImportError  `json:"errors"`
	Cards   []library.Card `json:"cards"`
}

// ColumnMapping is the resolved column layout
type ColumnMapping struct {
	FrontColumn int  `json:"front_column"`
	BackColumn  int  `json:"back_column"`
	HasHeader   bool `json:"has_header"`
}

// ImportSummary counts rows by outcome
type ImportSummary struct {
	TotalRows int `json:"total_rows"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"` // Blank rows
	Failed    int `json:"failed"`
}

// ImportError describes a row that could not be imported
type ImportError struct {
	Row   int    `json:"row"` // One-based line in the file
	Error string `json:"error"`
}
