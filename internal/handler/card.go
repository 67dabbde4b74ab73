package handler

import (
	"log/slog"
	"net/http"

	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

// CardHandler handles card HTTP requests
type CardHandler struct {
	cardService librarySvc.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(cardService librarySvc.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// ListCards returns the cards of a deck in position order
// GET /api/decks/{id}/cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), httputil.GetUserID(r), deckID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cards)
}

// CreateCard appends a card to a deck
// POST /api/decks/{id}/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var req librarySvc.CreateCardRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.DeckID = deckID

	card, err := h.cardService.CreateCard(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, card)
}

// DeleteCard removes a card
// DELETE /api/cards/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
