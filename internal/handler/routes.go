package handler

import (
	"net/http"
)

// Handlers groups every API handler so the server and tests register the same routes
type Handlers struct {
	Folders *FolderHandler
	Decks   *DeckHandler
	Tree    *TreeHandler
	Cards   *CardHandler
	Import  *ImportHandler
	Study   *StudyHandler
	Search  *SearchHandler
}

// Register adds the API routes to mux (Go 1.22+ method and wildcard patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/folders", h.Folders.ListFolders)
	mux.HandleFunc("POST /api/folders", h.Folders.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.DeleteFolder)

	// Deck routes
	mux.HandleFunc("GET /api/decks", h.Decks.ListDecks)
	mux.HandleFunc("POST /api/decks", h.Decks.CreateDeck)
	mux.HandleFunc("GET /api/decks/{id}", h.Decks.GetDeck)
	mux.HandleFunc("PATCH /api/decks/{id}", h.Decks.UpdateDeck)
	mux.HandleFunc("DELETE /api/decks/{id}", h.Decks.DeleteDeck)

	mux.HandleFunc("GET /api/tree", h.Tree.GetTree)

	// Card routes
	mux.HandleFunc("GET /api/decks/{id}/cards", h.Cards.ListCards)
	mux.HandleFunc("POST /api/decks/{id}/cards", h.Cards.CreateCard)
	mux.HandleFunc("DELETE /api/cards/{id}", h.Cards.DeleteCard)
	mux.HandleFunc("POST /api/decks/{id}/import", h.Import.ImportCSV)

	// Study routes
	mux.HandleFunc("POST /api/decks/{id}/attempts", h.Study.RecordAttempt)
	mux.HandleFunc("GET /api/decks/{id}/stats", h.Study.GetDeckStats)
	mux.HandleFunc("GET /api/stats/streak", h.Study.GetStreak)

	mux.HandleFunc("GET /api/search", h.Search.Search)
}
