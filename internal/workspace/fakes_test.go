package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"cognicard/internal/domain"
	"cognicard/internal/domain/models/library"
)

// fakeStore records calls and fails the ones listed in failures
type fakeStore struct {
	mu       sync.Mutex
	folders  []library.Folder
	decks    []library.Deck
	calls    []string
	failures map[string]error
	nextID   int
}

func newFakeStore(folders []library.Folder, decks []library.Deck) *fakeStore {
	return &fakeStore{folders: folders, decks: decks, failures: map[string]error{}}
}

func (s *fakeStore) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	return s.failures[op]
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeStore) FetchFolders(ctx context.Context) ([]library.Folder, error) {
	if err := s.record("FetchFolders"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]library.Folder(nil), s.folders...), nil
}

func (s *fakeStore) FetchDecks(ctx context.Context) ([]library.Deck, error) {
	if err := s.record("FetchDecks"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]library.Deck(nil), s.decks...), nil
}

func (s *fakeStore) CreateFolder(ctx context.Context, name string, parentID *string) (*library.Folder, error) {
	if err := s.record("CreateFolder"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f := library.Folder{ID: fmt.Sprintf("new-folder-%d", s.nextID), Name: name, ParentFolderID: parentID}
	s.folders = append(s.folders, f)
	return &f, nil
}

func (s *fakeStore) CreateDeck(ctx context.Context, name string, folderID *string) (*library.Deck, error) {
	if err := s.record("CreateDeck"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d := library.Deck{ID: fmt.Sprintf("new-deck-%d", s.nextID), Name: name, FolderID: folderID}
	s.decks = append(s.decks, d)
	return &d, nil
}

func (s *fakeStore) RenameFolder(ctx context.Context, id, name string) (*library.Folder, error) {
	if err := s.record("RenameFolder"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) RenameDeck(ctx context.Context, id, name string) (*library.Deck, error) {
	if err := s.record("RenameDeck"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) MoveFolder(ctx context.Context, id string, newParentID *string) (*library.Folder, error) {
	if err := s.record("MoveFolder"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) MoveDeck(ctx context.Context, id string, newFolderID *string) (*library.Deck, error) {
	if err := s.record("MoveDeck"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) DeleteFolder(ctx context.Context, id string) error {
	return s.record("DeleteFolder")
}

func (s *fakeStore) DeleteDeck(ctx context.Context, id string) error {
	return s.record("DeleteDeck")
}

// recordingNotifier keeps every message
type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// manualClock fires timers only when advanced
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// Advance moves time forward and runs due timers in order
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

// pending counts timers that are armed and not yet fired
func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func strPtr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errNetwork = fmt.Errorf("connection refused")

func conflict(kind, name, id string) error {
	return domain.NewDuplicateNameError(kind, name, id)
}

// sampleLibrary:
//
//	Biology/            (bio)
//	    Cells/          (cells)
//	        Mitosis/    (mitosis)
//	        Meiosis deck (d-meiosis)
//	    Biology deck    (d-bio)
//	Chemistry/          (chem)
//	    biology deck    (d-chem-bio)
//	Vocab deck          (d-vocab)
func sampleLibrary() ([]library.Folder, []library.Deck) {
	folders := []library.Folder{
		{ID: "bio", Name: "Biology"},
		{ID: "cells", Name: "Cells", ParentFolderID: strPtr("bio")},
		{ID: "mitosis", Name: "Mitosis", ParentFolderID: strPtr("cells")},
		{ID: "chem", Name: "Chemistry"},
	}
	decks := []library.Deck{
		{ID: "d-meiosis", Name: "Meiosis", FolderID: strPtr("cells")},
		{ID: "d-bio", Name: "Biology", FolderID: strPtr("bio")},
		{ID: "d-chem-bio", Name: "biology", FolderID: strPtr("chem")},
		{ID: "d-vocab", Name: "Vocab"},
	}
	return folders, decks
}

// newLoadedWorkspace returns a workspace refreshed from a store holding the sample library
func newLoadedWorkspace(t *testing.T) (*Workspace, *fakeStore, *recordingNotifier) {
	t.Helper()
	folders, decks := sampleLibrary()
	store := newFakeStore(folders, decks)
	notifier := &recordingNotifier{}
	ws := New(store, notifier, discardLogger())
	if err := ws.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	store.calls = nil
	return ws, store, notifier
}
