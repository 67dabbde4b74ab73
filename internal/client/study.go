package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"cognicard/internal/domain/models/library"
	librarySvc "cognicard/internal/domain/services/library"
)

// ListCards returns a deck's cards in order
func (c *Client) ListCards(ctx context.Context, deckID string) ([]library.Card, error) {
	var cards []library.Card
	if err := c.doJSON(ctx, http.MethodGet, "/api/decks/"+escape(deckID)+"/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard appends one card to a deck
func (c *Client) CreateCard(ctx context.Context, deckID, front, back string) (*library.Card, error) {
	var card library.Card
	req := librarySvc.CreateCardRequest{Front: front, Back: back}
	if err := c.doJSON(ctx, http.MethodPost, "/api/decks/"+escape(deckID)+"/cards", req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// ImportOptions overrides the server's column detection. Nil fields are detected.
type ImportOptions struct {
	FrontColumn *int
	BackColumn  *int
	HasHeader   *bool
}

func (o ImportOptions) query() string {
	q := url.Values{}
	if o.FrontColumn != nil {
		q.Set("front", strconv.Itoa(*o.FrontColumn))
	}
	if o.BackColumn != nil {
		q.Set("back", strconv.Itoa(*o.BackColumn))
	}
	if o.HasHeader != nil {
		q.Set("header", strconv.FormatBool(*o.HasHeader))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ImportCSV streams csv into a deck
func (c *Client) ImportCSV(ctx context.Context, deckID string, csv io.Reader, opts ImportOptions) (*librarySvc.ImportResult, error) {
	var result librarySvc.ImportResult
	path := "/api/decks/" + escape(deckID) + "/import" + opts.query()
	if err := c.do(ctx, http.MethodPost, path, csv, "text/csv", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordAttempt stores a finished study pass
func (c *Client) RecordAttempt(ctx context.Context, deckID string, req librarySvc.RecordAttemptRequest) (*library.Attempt, error) {
	var attempt library.Attempt
	if err := c.doJSON(ctx, http.MethodPost, "/api/decks/"+escape(deckID)+"/attempts", req, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// DeckStats returns a deck's aggregate statistics
func (c *Client) DeckStats(ctx context.Context, deckID string) (*library.DeckStats, error) {
	var stats library.DeckStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/decks/"+escape(deckID)+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Streak returns the study streak with days counted in tz ("" = UTC)
func (c *Client) Streak(ctx context.Context, tz string) (*library.Streak, error) {
	path := "/api/stats/streak"
	if tz != "" {
		path += "?tz=" + url.QueryEscape(tz)
	}
	var streak library.Streak
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &streak); err != nil {
		return nil, err
	}
	return &streak, nil
}

// Search matches deck names and card text
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*library.SearchResults, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var results library.SearchResults
	if err := c.doJSON(ctx, http.MethodGet, "/api/search?"+q.Encode(), nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
