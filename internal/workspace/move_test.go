package workspace

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cognicard/internal/domain"
	"cognicard/internal/domain/models/library"
)

func TestMove_RejectedBeforeRemoteCall(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		target  *string
		wantErr error
	}{
		{"folder into itself", FolderItem("bio"), strPtr("bio"), ErrMoveIntoSelf},
		{"folder into child", FolderItem("bio"), strPtr("cells"), ErrMoveIntoDescendant},
		{"folder into grandchild", FolderItem("bio"), strPtr("mitosis"), ErrMoveIntoDescendant},
		{"deck onto same-named deck", DeckItem("d-bio"), strPtr("chem"), ErrNameTakenAtDestination},
		{"case-insensitive name clash in folder", DeckItem("d-chem-bio"), strPtr("bio"), ErrNameTakenAtDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, store, notifier := newLoadedWorkspace(t)
			foldersBefore, decksBefore := ws.Folders(), ws.Decks()

			outcome, err := ws.Move(context.Background(), tt.item, tt.target)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err should match ErrValidation")
			}
			if outcome != MoveRejected {
				t.Errorf("outcome = %v, want rejected", outcome)
			}
			if n := store.callCount(); n != 0 {
				t.Errorf("remote calls = %d, want 0", n)
			}
			if !reflect.DeepEqual(ws.Folders(), foldersBefore) || !reflect.DeepEqual(ws.Decks(), decksBefore) {
				t.Error("rejected move mutated the lists")
			}
			if notifier.lastError() != tt.wantErr.Error() {
				t.Errorf("notification = %q, want %q", notifier.lastError(), tt.wantErr.Error())
			}
		})
	}
}

func TestMove_UnknownItemOrTarget(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		target *string
	}{
		{"unknown folder", FolderItem("nope"), nil},
		{"deck id used as folder", FolderItem("d-bio"), nil},
		{"unknown target", DeckItem("d-vocab"), strPtr("nope")},
		{"deck as target", DeckItem("d-vocab"), strPtr("d-bio")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, store, _ := newLoadedWorkspace(t)

			_, err := ws.Move(context.Background(), tt.item, tt.target)

			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if store.callCount() != 0 {
				t.Error("no remote call expected")
			}
		})
	}
}

func TestMove_NoopShortCircuit(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		target *string
	}{
		{"deck already in folder", DeckItem("d-bio"), strPtr("bio")},
		{"root deck to root", DeckItem("d-vocab"), nil},
		{"root folder to root", FolderItem("chem"), nil},
		{"child folder to its parent", FolderItem("cells"), strPtr("bio")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, store, notifier := newLoadedWorkspace(t)
			foldersBefore, decksBefore := ws.Folders(), ws.Decks()
			changes := 0
			ws.OnChange(func() { changes++ })

			outcome, err := ws.Move(context.Background(), tt.item, tt.target)

			if err != nil || outcome != MoveNoop {
				t.Fatalf("Move = %v, %v; want noop", outcome, err)
			}
			if store.callCount() != 0 {
				t.Errorf("remote calls = %d, want 0", store.callCount())
			}
			if changes != 0 {
				t.Errorf("listeners fired %d times, want 0", changes)
			}
			if !reflect.DeepEqual(ws.Folders(), foldersBefore) || !reflect.DeepEqual(ws.Decks(), decksBefore) {
				t.Error("noop move mutated the lists")
			}
			if len(notifier.errors) != 0 {
				t.Errorf("unexpected notifications: %v", notifier.errors)
			}
		})
	}
}

func TestMove_Applied(t *testing.T) {
	ws, store, _ := newLoadedWorkspace(t)
	changes := 0
	ws.OnChange(func() { changes++ })

	outcome, err := ws.Move(context.Background(), FolderItem("cells"), nil)

	if err != nil || outcome != MoveApplied {
		t.Fatalf("Move = %v, %v; want applied", outcome, err)
	}
	if !reflect.DeepEqual(store.calls, []string{"MoveFolder"}) {
		t.Errorf("calls = %v, want [MoveFolder]", store.calls)
	}
	if changes == 0 {
		t.Error("listeners were not notified")
	}

	info, ok := ws.Locate("mitosis")
	if !ok || info.Depth != 1 {
		t.Errorf("mitosis depth = %d (found %v), want 1 under the moved folder", info.Depth, ok)
	}
	if ws.Busy() {
		t.Error("busy flag left set")
	}
}

func TestMove_IntoFolderOpensIt(t *testing.T) {
	ws, _, _ := newLoadedWorkspace(t)

	if _, err := ws.Move(context.Background(), DeckItem("d-vocab"), strPtr("chem")); err != nil {
		t.Fatal(err)
	}
	if !ws.View().IsOpen("chem") {
		t.Error("destination folder should be expanded")
	}
}

func TestMove_RollbackRestoresSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		target *string
		fail   string
	}{
		{"deck", DeckItem("d-vocab"), strPtr("chem"), "MoveDeck"},
		{"folder", FolderItem("mitosis"), nil, "MoveFolder"},
		{"deck to root", DeckItem("d-meiosis"), nil, "MoveDeck"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, store, notifier := newLoadedWorkspace(t)
			store.failures[tt.fail] = errNetwork
			foldersBefore, decksBefore := ws.Folders(), ws.Decks()

			outcome, err := ws.Move(context.Background(), tt.item, tt.target)

			if outcome != MoveRolledBack || !errors.Is(err, errNetwork) {
				t.Fatalf("Move = %v, %v; want rolled back with network error", outcome, err)
			}
			if !reflect.DeepEqual(ws.Folders(), foldersBefore) {
				t.Errorf("folders after rollback:\n%+v\nwant\n%+v", ws.Folders(), foldersBefore)
			}
			if !reflect.DeepEqual(ws.Decks(), decksBefore) {
				t.Errorf("decks after rollback:\n%+v\nwant\n%+v", ws.Decks(), decksBefore)
			}
			if notifier.lastError() == "" {
				t.Error("expected an error notification")
			}
		})
	}
}

func TestPendingMove_IndependentRollback(t *testing.T) {
	ws, store, _ := newLoadedWorkspace(t)
	store.failures["MoveDeck"] = errNetwork
	ctx := context.Background()

	deckMove, err := ws.PrepareMove(DeckItem("d-vocab"), strPtr("bio"))
	if err != nil {
		t.Fatal(err)
	}
	folderMove, err := ws.PrepareMove(FolderItem("chem"), strPtr("bio"))
	if err != nil {
		t.Fatal(err)
	}

	deckMove.ApplyLocal()
	folderMove.ApplyLocal()

	if err := deckMove.Commit(ctx); err == nil {
		t.Fatal("deck move should fail")
	}
	if err := folderMove.Commit(ctx); err != nil {
		t.Fatalf("folder move: %v", err)
	}

	for _, d := range ws.Decks() {
		if d.ID == "d-vocab" && d.FolderID != nil {
			t.Errorf("d-vocab folder = %q, want root after rollback", *d.FolderID)
		}
	}
	for _, f := range ws.Folders() {
		if f.ID == "chem" && (f.ParentFolderID == nil || *f.ParentFolderID != "bio") {
			t.Errorf("chem parent = %v, want bio; the deck rollback must not touch it", f.ParentFolderID)
		}
	}
}

func TestPendingMove_CommitOnce(t *testing.T) {
	ws, store, _ := newLoadedWorkspace(t)

	pm, err := ws.PrepareMove(DeckItem("d-vocab"), strPtr("chem"))
	if err != nil {
		t.Fatal(err)
	}
	pm.ApplyLocal()
	pm.ApplyLocal()
	pm.Commit(context.Background())
	pm.Commit(context.Background())

	if len(store.calls) != 1 {
		t.Errorf("calls = %v, want exactly one MoveDeck", store.calls)
	}
}

// blockingStore parks MoveDeck until released
type blockingStore struct {
	*fakeStore
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) MoveDeck(ctx context.Context, id string, newFolderID *string) (*library.Deck, error) {
	close(s.started)
	<-s.release
	return s.fakeStore.MoveDeck(ctx, id, newFolderID)
}

func TestMove_BusyBlocksStructuralEdits(t *testing.T) {
	folders, decks := sampleLibrary()
	store := &blockingStore{
		fakeStore: newFakeStore(folders, decks),
		started:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	ws := New(store, &recordingNotifier{}, discardLogger())
	ctx := context.Background()
	if err := ws.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	done := make(chan error)
	go func() {
		_, err := ws.Move(ctx, DeckItem("d-vocab"), strPtr("chem"))
		done <- err
	}()
	<-store.started

	if _, err := ws.Move(ctx, FolderItem("chem"), strPtr("bio")); !errors.Is(err, ErrBusy) {
		t.Errorf("second move err = %v, want ErrBusy", err)
	}
	if _, err := ws.CreateFolder(ctx, "Physics", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("create err = %v, want ErrBusy", err)
	}
	if err := ws.DeleteDeck(ctx, "d-bio"); !errors.Is(err, ErrBusy) {
		t.Errorf("delete err = %v, want ErrBusy", err)
	}

	// Browsing is never blocked
	ws.ToggleFolder("bio")
	if !ws.View().IsOpen("bio") {
		t.Error("toggle should work while busy")
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first move: %v", err)
	}
	if ws.Busy() {
		t.Error("busy flag left set")
	}
}
