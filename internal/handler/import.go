package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"cognicard/internal/config"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

// ImportHandler handles CSV card imports
type ImportHandler struct {
	cardService librarySvc.CardService
	logger      *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(cardService librarySvc.CardService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// ImportCSV imports cards into a deck from a CSV body
// POST /api/decks/{id}/import?front=0&back=1&header=true
// The body is either raw CSV or multipart/form-data with a "file" field.
// Column indices are zero-based; when omitted they are detected from the header row.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	deckID, err := httputil.PathUUID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	req := &librarySvc.ImportCSVRequest{
		UserID: httputil.GetUserID(r),
		DeckID: deckID,
	}
	if req.FrontColumn, err = httputil.QueryOptionalInt(r, "front"); err != nil {
		badRequest(w, err)
		return
	}
	if req.BackColumn, err = httputil.QueryOptionalInt(r, "back"); err != nil {
		badRequest(w, err)
		return
	}
	if req.HasHeader, err = httputil.QueryOptionalBool(r, "header"); err != nil {
		badRequest(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxImportBytes+4096)

	body, closeBody, err := csvBody(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "import file is too large")
			return
		}
		badRequest(w, err)
		return
	}
	defer closeBody()

	h.logger.Info("importing cards",
		"deck_id", deckID,
		"user_id", req.UserID,
	)

	result, err := h.cardService.ImportCSV(r.Context(), req, body)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// csvBody returns the CSV stream from either a raw body or a multipart "file" field
func csvBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(config.MaxImportBytes); err != nil {
		return nil, nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errors.New("missing \"file\" field in multipart form")
	}
	return file, func() { file.Close() }, nil
}
