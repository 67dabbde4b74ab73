package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

// StudyHandler handles attempts, deck statistics and streaks
type StudyHandler struct {
	studyService librarySvc.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService librarySvc.StudyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
		logger:       logger,
	}
}

// RecordAttempt stores one finished study pass
// POST /api/decks/{id}/attempts
func (h *StudyHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	deckID, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var req librarySvc.RecordAttemptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.DeckID = deckID

	attempt, err := h.studyService.RecordAttempt(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, attempt)
}

// GetDeckStats returns aggregate statistics for a deck
// GET /api/decks/{id}/stats
func (h *StudyHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	stats, err := h.studyService.GetDeckStats(r.Context(), httputil.GetUserID(r), deckID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// GetStreak returns the current and longest study streak
// GET /api/stats/streak?tz=Europe/Berlin
// Days are counted in tz (IANA name), UTC when omitted.
func (h *StudyHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			badRequest(w, fmt.Errorf("invalid tz: %q", tz))
			return
		}
		loc = parsed
	}

	streak, err := h.studyService.GetStreak(r.Context(), httputil.GetUserID(r), loc)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, streak)
}
