package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cognicard/internal/domain/models/library"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
)

const testUser = "user-1"

type fakeFolderService struct {
	createReq *librarySvc.CreateFolderRequest
	updateReq *librarySvc.UpdateFolderRequest
	updateID  string
	deletedID string
	err       error
}

func (f *fakeFolderService) ListFolders(ctx context.Context, userID string) ([]library.Folder, error) {
	return []library.Folder{{ID: "f1", UserID: userID, Name: "Bio"}}, f.err
}

func (f *fakeFolderService) CreateFolder(ctx context.Context, req *librarySvc.CreateFolderRequest) (*library.Folder, error) {
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &library.Folder{ID: "f-new", UserID: req.UserID, Name: req.Name, ParentFolderID: req.ParentFolderID}, nil
}

func (f *fakeFolderService) UpdateFolder(ctx context.Context, userID, folderID string, req *librarySvc.UpdateFolderRequest) (*library.Folder, error) {
	f.updateID = folderID
	f.updateReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &library.Folder{ID: folderID, UserID: userID, Name: "Bio"}, nil
}

func (f *fakeFolderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	f.deletedID = folderID
	return f.err
}

type fakeDeckService struct {
	updateReq *librarySvc.UpdateDeckRequest
	err       error
}

func (f *fakeDeckService) ListDecks(ctx context.Context, userID string) ([]library.Deck, error) {
	return []library.Deck{}, f.err
}

func (f *fakeDeckService) GetDeck(ctx context.Context, userID, deckID string) (*library.Deck, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &library.Deck{ID: deckID, UserID: userID, Name: "Cells", CardCount: 3}, nil
}

func (f *fakeDeckService) CreateDeck(ctx context.Context, req *librarySvc.CreateDeckRequest) (*library.Deck, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &library.Deck{ID: "d-new", UserID: req.UserID, Name: req.Name, FolderID: req.FolderID}, nil
}

func (f *fakeDeckService) UpdateDeck(ctx context.Context, userID, deckID string, req *librarySvc.UpdateDeckRequest) (*library.Deck, error) {
	f.updateReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &library.Deck{ID: deckID, UserID: userID}, nil
}

func (f *fakeDeckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	return f.err
}

type fakeTreeService struct{}

func (fakeTreeService) GetTree(ctx context.Context, userID string) ([]*library.TreeNode, error) {
	return library.BuildTree(
		[]library.Folder{{ID: "f1", Name: "Bio"}},
		[]library.Deck{{ID: "d1", Name: "Cells", FolderID: strPtr("f1")}},
	), nil
}

type fakeCardService struct {
	importReq  *librarySvc.ImportCSVRequest
	importBody string
	err        error
}

func (f *fakeCardService) ListCards(ctx context.Context, userID, deckID string) ([]library.Card, error) {
	return []library.Card{}, f.err
}

func (f *fakeCardService) CreateCard(ctx context.Context, req *librarySvc.CreateCardRequest) (*library.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &library.Card{ID: "c1", DeckID: req.DeckID, Front: req.Front, Back: req.Back}, nil
}

func (f *fakeCardService) DeleteCard(ctx context.Context, userID, cardID string) error {
	return f.err
}

func (f *fakeCardService) ImportCSV(ctx context.Context, req *librarySvc.ImportCSVRequest, csvData io.Reader) (*librarySvc.ImportResult, error) {
	f.importReq = req
	data, err := io.ReadAll(csvData)
	if err != nil {
		return nil, err
	}
	f.importBody = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &librarySvc.ImportResult{Summary: librarySvc.ImportSummary{TotalRows: 1, Created: 1}}, nil
}

type fakeStudyService struct {
	loc *time.Location
	err error
}

func (f *fakeStudyService) RecordAttempt(ctx context.Context, req *librarySvc.RecordAttemptRequest) (*library.Attempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &library.Attempt{ID: "a1", DeckID: req.DeckID, Correct: req.Correct, Total: req.Total}, nil
}

func (f *fakeStudyService) GetDeckStats(ctx context.Context, userID, deckID string) (*library.DeckStats, error) {
	return &library.DeckStats{DeckID: deckID}, f.err
}

func (f *fakeStudyService) GetStreak(ctx context.Context, userID string, loc *time.Location) (*library.Streak, error) {
	f.loc = loc
	return &library.Streak{}, f.err
}

type fakeSearchService struct {
	req *librarySvc.SearchRequest
	err error
}

func (f *fakeSearchService) Search(ctx context.Context, userID string, req *librarySvc.SearchRequest) (*library.SearchResults, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	opts := &library.SearchOptions{Limit: req.Limit, Offset: req.Offset}
	return library.NewSearchResults(nil, 0, opts), nil
}

type testServer struct {
	folders *fakeFolderService
	decks   *fakeDeckService
	cards   *fakeCardService
	study   *fakeStudyService
	search  *fakeSearchService
	mux     *http.ServeMux
}

func newTestServer() *testServer {
	logger := discardLogger()
	ts := &testServer{
		folders: &fakeFolderService{},
		decks:   &fakeDeckService{},
		cards:   &fakeCardService{},
		study:   &fakeStudyService{},
		search:  &fakeSearchService{},
		mux:     http.NewServeMux(),
	}
	h := &Handlers{
		Folders: NewFolderHandler(ts.folders, logger),
		Decks:   NewDeckHandler(ts.decks, logger),
		Tree:    NewTreeHandler(fakeTreeService{}, logger),
		Cards:   NewCardHandler(ts.cards, logger),
		Import:  NewImportHandler(ts.cards, logger),
		Study:   NewStudyHandler(ts.study, logger),
		Search:  NewSearchHandler(ts.search, logger),
	}
	h.Register(ts.mux)
	return ts
}

// do sends an authenticated request through the mux
func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = httputil.WithUserID(req, testUser)
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
