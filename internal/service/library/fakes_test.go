package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"cognicard/internal/domain"
	models "cognicard/internal/domain/models/library"
	"cognicard/internal/domain/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughTx runs fn directly; the fakes have nothing to roll back
type passthroughTx struct{ calls int }

func (tx *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx.calls++
	return fn(ctx)
}

// fakeFolderRepo is an in-memory FolderRepository
type fakeFolderRepo struct {
	folders map[string]*models.Folder
	nextID  int
}

func newFakeFolderRepo(folders ...models.Folder) *fakeFolderRepo {
	r := &fakeFolderRepo{folders: map[string]*models.Folder{}}
	for i := range folders {
		f := folders[i]
		r.folders[f.ID] = &f
	}
	return r
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.nextID++
	folder.ID = "new-folder-" + strconv.Itoa(r.nextID)
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	stored := *folder
	r.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	stored := *folder
	r.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.GetByID(ctx, id, userID); err != nil {
		return err
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.sorted() {
		if f.UserID == userID && sameParent(f.ParentFolderID, parentID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.sorted() {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) sorted() []models.Folder {
	out := make([]models.Folder, 0, len(r.folders))
	for _, f := range r.folders {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakeDeckRepo is an in-memory DeckRepository
type fakeDeckRepo struct {
	decks  map[string]*models.Deck
	nextID int
}

func newFakeDeckRepo(decks ...models.Deck) *fakeDeckRepo {
	r := &fakeDeckRepo{decks: map[string]*models.Deck{}}
	for i := range decks {
		d := decks[i]
		r.decks[d.ID] = &d
	}
	return r
}

func (r *fakeDeckRepo) Create(ctx context.Context, deck *models.Deck) error {
	r.nextID++
	deck.ID = "new-deck-" + strconv.Itoa(r.nextID)
	stored := *deck
	r.decks[deck.ID] = &stored
	return nil
}

func (r *fakeDeckRepo) GetByID(ctx context.Context, id, userID string) (*models.Deck, error) {
	d, ok := r.decks[id]
	if !ok || d.UserID != userID {
		return nil, fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDeckRepo) Update(ctx context.Context, deck *models.Deck) error {
	stored := *deck
	r.decks[deck.ID] = &stored
	return nil
}

func (r *fakeDeckRepo) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.GetByID(ctx, id, userID); err != nil {
		return err
	}
	delete(r.decks, id)
	return nil
}

func (r *fakeDeckRepo) ListByFolder(ctx context.Context, folderID *string, userID string) ([]models.Deck, error) {
	var out []models.Deck
	for _, d := range r.decks {
		if d.UserID == userID && sameParent(d.FolderID, folderID) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDeckRepo) ListByUser(ctx context.Context, userID string) ([]models.Deck, error) {
	var out []models.Deck
	for _, d := range r.decks {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeCardRepo records created cards
type fakeCardRepo struct {
	cards []*models.Card
}

func (r *fakeCardRepo) Create(ctx context.Context, card *models.Card) error {
	return r.CreateBatch(ctx, []*models.Card{card})
}

func (r *fakeCardRepo) CreateBatch(ctx context.Context, cards []*models.Card) error {
	for _, c := range cards {
		c.ID = "card-" + strconv.Itoa(len(r.cards)+1)
		c.Position = len(r.cards)
		r.cards = append(r.cards, c)
	}
	return nil
}

func (r *fakeCardRepo) GetByIDOnly(ctx context.Context, id string) (*models.Card, error) {
	for _, c := range r.cards {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
}

func (r *fakeCardRepo) ListByDeck(ctx context.Context, deckID string) ([]models.Card, error) {
	var out []models.Card
	for _, c := range r.cards {
		if c.DeckID == deckID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) Delete(ctx context.Context, id string) error {
	for i, c := range r.cards {
		if c.ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
}

// ownerAuthorizer grants access to ids listed per user
type ownerAuthorizer struct {
	folders *fakeFolderRepo
	decks   *fakeDeckRepo
}

func (a *ownerAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	_, err := a.folders.GetByID(ctx, folderID, userID)
	return err
}

func (a *ownerAuthorizer) CanAccessDeck(ctx context.Context, userID, deckID string) error {
	_, err := a.decks.GetByID(ctx, deckID, userID)
	return err
}

func (a *ownerAuthorizer) CanAccessCard(ctx context.Context, userID, cardID string) error {
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtr(s string) *string { return &s }
