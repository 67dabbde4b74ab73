package handler

import (
	"log/slog"
	"net/http"
	"strings"

	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

// SearchHandler handles library search requests
type SearchHandler struct {
	searchService librarySvc.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService librarySvc.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search matches deck names and card text
// GET /api/search?q=mitosis&fields=deck,card&deck_id=<uuid>&limit=20&offset=0
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &librarySvc.SearchRequest{
		Query: strings.TrimSpace(query.Get("q")),
	}
	if fields := query.Get("fields"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				req.Fields = append(req.Fields, f)
			}
		}
	}
	if deckID := query.Get("deck_id"); deckID != "" {
		req.DeckID = &deckID
	}

	var err error
	if req.Limit, err = httputil.QueryInt(r, "limit", 0); err != nil {
		badRequest(w, err)
		return
	}
	if req.Offset, err = httputil.QueryInt(r, "offset", 0); err != nil {
		badRequest(w, err)
		return
	}

	results, err := h.searchService.Search(r.Context(), httputil.GetUserID(r), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, results)
}
