package handler

import (
	"log/slog"
	"net/http"

	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

// DeckHandler handles deck HTTP requests
type DeckHandler struct {
	deckService librarySvc.DeckService
	logger      *slog.Logger
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService librarySvc.DeckService, logger *slog.Logger) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		logger:      logger,
	}
}

// ListDecks returns the user's decks as a flat list
// GET /api/decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.deckService.ListDecks(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, decks)
}

// GetDeck returns one deck with its card count
// GET /api/decks/{id}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, deck)
}

// CreateDeck creates a new deck
// POST /api/decks
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req librarySvc.CreateDeckRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	req.UserID = httputil.GetUserID(r)

	deck, err := h.deckService.CreateDeck(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, deck)
}

// UpdateDeck renames, re-describes and/or moves a deck
// PATCH /api/decks/{id}
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var req librarySvc.UpdateDeckRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), httputil.GetUserID(r), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, deck)
}

// DeleteDeck deletes a deck with its cards and attempts
// DELETE /api/decks/{id}
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
