package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"cognicard/internal/domain"
	"cognicard/internal/domain/models/library"
)

// Workspace holds the last-fetched folder and deck lists, the view state and the
// busy flag that serialises structural edits. Browsing (open, close, hover) never
// waits on the busy flag.
type Workspace struct {
	store    RemoteStore
	notifier Notifier
	logger   *slog.Logger
	view     *ViewState

	mu        sync.Mutex
	folders   []library.Folder
	decks     []library.Deck
	busy      bool
	listeners []func()
}

// New creates an empty workspace. Call Refresh to load the lists.
func New(store RemoteStore, notifier Notifier, logger *slog.Logger) *Workspace {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Workspace{
		store:    store,
		notifier: notifier,
		logger:   logger,
		view:     NewViewState(),
	}
}

// View returns the workspace's view state
func (w *Workspace) View() *ViewState {
	return w.view
}

// OnChange registers fn to run after the lists or the open set change
func (w *Workspace) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

func (w *Workspace) changed() {
	w.mu.Lock()
	listeners := append([]func(){}, w.listeners...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Folders returns a copy of the folder list
func (w *Workspace) Folders() []library.Folder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]library.Folder(nil), w.folders...)
}

// Decks returns a copy of the deck list
func (w *Workspace) Decks() []library.Deck {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]library.Deck(nil), w.decks...)
}

// Tree builds the nested tree from the current lists
func (w *Workspace) Tree() []*library.TreeNode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return library.BuildTree(w.folders, w.decks)
}

// Busy reports whether a structural edit is in flight
func (w *Workspace) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// OpenFolder expands a folder and notifies listeners if it was closed
func (w *Workspace) OpenFolder(id string) {
	if w.view.Open(id) {
		w.changed()
	}
}

// ToggleFolder flips a folder open or closed
func (w *Workspace) ToggleFolder(id string) bool {
	open := w.view.Toggle(id)
	w.changed()
	return open
}

// ExpandAll opens every folder
func (w *Workspace) ExpandAll() {
	w.view.OpenAll(w.Tree())
	w.changed()
}

// Refresh replaces both lists with a fresh copy from the store
func (w *Workspace) Refresh(ctx context.Context) error {
	var folders []library.Folder
	var decks []library.Deck

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = w.store.FetchFolders(gctx)
		if err != nil {
			return fmt.Errorf("fetch folders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		decks, err = w.store.FetchDecks(gctx)
		if err != nil {
			return fmt.Errorf("fetch decks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		w.notifier.Error("could not load your library: " + err.Error())
		return err
	}

	w.mu.Lock()
	w.folders = folders
	w.decks = decks
	w.mu.Unlock()

	w.logger.Debug("workspace refreshed", "folders", len(folders), "decks", len(decks))
	w.changed()
	return nil
}

// acquire sets the busy flag for a structural edit
func (w *Workspace) acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrBusy
	}
	w.busy = true
	return nil
}

func (w *Workspace) release() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

// reject notifies and returns a failure caught before any remote call
func (w *Workspace) reject(err error) error {
	w.notifier.Error(err.Error())
	return err
}

// CreateFolder validates locally, then creates the folder remotely.
// The folder is added to the list only once the store accepts it.
func (w *Workspace) CreateFolder(ctx context.Context, name string, parentID *string) (*library.Folder, error) {
	if err := w.acquire(); err != nil {
		return nil, w.reject(err)
	}
	defer w.release()

	name = strings.TrimSpace(name)
	if err := w.validateCreate(library.NodeFolder, name, parentID); err != nil {
		return nil, w.reject(err)
	}

	folder, err := w.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return nil, w.remoteFailure(library.NodeFolder, name, "create", err)
	}

	w.mu.Lock()
	w.folders = append(w.folders, *folder)
	w.mu.Unlock()

	if parentID != nil {
		w.view.Open(*parentID)
	}
	w.notifier.Info(fmt.Sprintf("created folder %q", folder.Name))
	w.changed()
	return folder, nil
}

// CreateDeck validates locally, then creates the deck remotely
func (w *Workspace) CreateDeck(ctx context.Context, name string, folderID *string) (*library.Deck, error) {
	if err := w.acquire(); err != nil {
		return nil, w.reject(err)
	}
	defer w.release()

	name = strings.TrimSpace(name)
	if err := w.validateCreate(library.NodeDeck, name, folderID); err != nil {
		return nil, w.reject(err)
	}

	deck, err := w.store.CreateDeck(ctx, name, folderID)
	if err != nil {
		return nil, w.remoteFailure(library.NodeDeck, name, "create", err)
	}

	w.mu.Lock()
	w.decks = append(w.decks, *deck)
	w.mu.Unlock()

	if folderID != nil {
		w.view.Open(*folderID)
	}
	w.notifier.Info(fmt.Sprintf("created deck %q", deck.Name))
	w.changed()
	return deck, nil
}

func (w *Workspace) validateCreate(kind library.NodeKind, name string, parentID *string) error {
	if name == "" {
		return ErrEmptyName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if parentID != nil && w.folderIndex(*parentID) < 0 {
		return unknownFolder(*parentID)
	}
	if existing, ok := w.siblingNamed(kind, parentID, name, ""); ok {
		return duplicateName(kind, name, existing)
	}
	return nil
}

// remoteFailure reports a failed remote call. Name clashes get the same
// message as the local duplicate check.
func (w *Workspace) remoteFailure(kind library.NodeKind, name, op string, err error) error {
	w.logger.Warn("remote call failed", "op", op, "kind", kind, "name", name, "error", err)

	if domain.IsDuplicateName(err) {
		var conflictErr *domain.ConflictError
		existingID := ""
		if errors.As(err, &conflictErr) {
			existingID = conflictErr.ResourceID
		}
		dup := duplicateName(kind, name, existingID)
		w.notifier.Error(dup.Error())
		return dup
	}

	w.notifier.Error(fmt.Sprintf("could not %s %s %q: %v", op, kind, name, err))
	return err
}

// RenameFolder renames a folder optimistically, restoring the old name on failure
func (w *Workspace) RenameFolder(ctx context.Context, id, name string) error {
	return w.rename(ctx, FolderItem(id), name)
}

// RenameDeck renames a deck optimistically, restoring the old name on failure
func (w *Workspace) RenameDeck(ctx context.Context, id, name string) error {
	return w.rename(ctx, DeckItem(id), name)
}

func (w *Workspace) rename(ctx context.Context, item Item, name string) error {
	if err := w.acquire(); err != nil {
		return w.reject(err)
	}
	defer w.release()
	defer w.view.StopEditing(item.ID)

	name = strings.TrimSpace(name)
	if name == "" {
		return w.reject(ErrEmptyName)
	}

	w.mu.Lock()
	snap, ok := w.snapshot(item)
	if !ok {
		w.mu.Unlock()
		return w.reject(unknownItem(item))
	}
	if snap.name() == name {
		w.mu.Unlock()
		return nil
	}
	if existing, taken := w.siblingNamed(item.Kind, snap.parent(), name, item.ID); taken {
		w.mu.Unlock()
		return w.reject(duplicateName(item.Kind, name, existing))
	}
	w.setName(item, name)
	w.mu.Unlock()
	w.changed()

	var err error
	switch item.Kind {
	case library.NodeFolder:
		var folder *library.Folder
		if folder, err = w.store.RenameFolder(ctx, item.ID, name); err == nil {
			w.mergeFolder(folder)
		}
	default:
		var deck *library.Deck
		if deck, err = w.store.RenameDeck(ctx, item.ID, name); err == nil {
			w.mergeDeck(deck)
		}
	}
	if err != nil {
		w.mu.Lock()
		w.restore(snap)
		w.mu.Unlock()
		w.changed()
		return w.remoteFailure(item.Kind, name, "rename", err)
	}
	return nil
}

// DeleteFolder deletes remotely, then drops the folder with every descendant
// folder and deck from the local lists
func (w *Workspace) DeleteFolder(ctx context.Context, id string) error {
	return w.delete(ctx, FolderItem(id))
}

// DeleteDeck deletes remotely, then drops the deck locally
func (w *Workspace) DeleteDeck(ctx context.Context, id string) error {
	return w.delete(ctx, DeckItem(id))
}

func (w *Workspace) delete(ctx context.Context, item Item) error {
	if err := w.acquire(); err != nil {
		return w.reject(err)
	}
	defer w.release()

	w.mu.Lock()
	snap, ok := w.snapshot(item)
	w.mu.Unlock()
	if !ok {
		return w.reject(unknownItem(item))
	}

	var err error
	if item.Kind == library.NodeFolder {
		err = w.store.DeleteFolder(ctx, item.ID)
	} else {
		err = w.store.DeleteDeck(ctx, item.ID)
	}
	if err != nil {
		return w.remoteFailure(item.Kind, snap.name(), "delete", err)
	}

	removed := map[string]bool{item.ID: true}
	w.mu.Lock()
	if item.Kind == library.NodeFolder {
		for id := range w.descendantFolders(item.ID) {
			removed[id] = true
		}
		w.folders = filterFolders(w.folders, removed)
	}
	w.decks = filterDecks(w.decks, removed, item.Kind == library.NodeFolder)
	w.mu.Unlock()

	w.view.forget(removed)
	w.notifier.Info(fmt.Sprintf("deleted %s %q", item.Kind, snap.name()))
	w.changed()
	return nil
}

func filterFolders(folders []library.Folder, removed map[string]bool) []library.Folder {
	kept := folders[:0:0]
	for _, f := range folders {
		if !removed[f.ID] {
			kept = append(kept, f)
		}
	}
	return kept
}

// filterDecks drops decks whose id is in removed and, when byFolder is set,
// decks that live in a removed folder
func filterDecks(decks []library.Deck, removed map[string]bool, byFolder bool) []library.Deck {
	kept := decks[:0:0]
	for _, d := range decks {
		if removed[d.ID] {
			continue
		}
		if byFolder && d.FolderID != nil && removed[*d.FolderID] {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// NodeInfo describes where a node sits in the current tree
type NodeInfo struct {
	Item     Item
	Name     string
	Depth    int
	ParentID *string
}

// Locate finds a node in the tree as it is currently displayed
func (w *Workspace) Locate(id string) (NodeInfo, bool) {
	node, depth := library.FindNode(w.Tree(), id)
	if node == nil {
		return NodeInfo{}, false
	}
	return NodeInfo{
		Item:     Item{ID: node.ID, Kind: node.Kind},
		Name:     node.Name,
		Depth:    depth,
		ParentID: node.ParentID,
	}, true
}

// IsFolder reports whether id is a known folder
func (w *Workspace) IsFolder(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.folderIndex(id) >= 0
}

// ResolvePath finds a node by its slash-separated name path, e.g. "Biology/Cells".
// Names match case-insensitively; a folder wins over a deck with the same name.
func (w *Workspace) ResolvePath(path string) (*library.TreeNode, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, &domain.ValidationError{Message: "path cannot be empty"}
	}

	level := w.Tree()
	var found *library.TreeNode
	for i, segment := range segments {
		found = nil
		for _, node := range level {
			if strings.EqualFold(node.Name, segment) {
				found = node
				break
			}
		}
		if found == nil || (i < len(segments)-1 && !found.IsFolder()) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("no folder or deck at %q", path)}
		}
		level = found.Children
	}
	return found, nil
}

// ResolveFolder resolves a destination path to a folder id; "" or "/" is the root (nil)
func (w *Workspace) ResolveFolder(path string) (*string, error) {
	if len(splitPath(path)) == 0 {
		return nil, nil
	}
	node, err := w.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if !node.IsFolder() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("%q is a deck, not a folder", path)}
	}
	id := node.ID
	return &id, nil
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// The helpers below expect w.mu to be held.

func (w *Workspace) folderIndex(id string) int {
	for i := range w.folders {
		if w.folders[i].ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) deckIndex(id string) int {
	for i := range w.decks {
		if w.decks[i].ID == id {
			return i
		}
	}
	return -1
}

// siblingNamed finds an item of kind under parentID whose name matches case-insensitively
func (w *Workspace) siblingNamed(kind library.NodeKind, parentID *string, name, excludeID string) (string, bool) {
	if kind == library.NodeFolder {
		for _, f := range w.folders {
			if f.ID != excludeID && sameParent(f.ParentFolderID, parentID) && strings.EqualFold(f.Name, name) {
				return f.ID, true
			}
		}
		return "", false
	}
	for _, d := range w.decks {
		if d.ID != excludeID && sameParent(d.FolderID, parentID) && strings.EqualFold(d.Name, name) {
			return d.ID, true
		}
	}
	return "", false
}

// descendantFolders returns every folder below id, following the flat list
func (w *Workspace) descendantFolders(id string) map[string]bool {
	children := make(map[string][]string)
	for _, f := range w.folders {
		if f.ParentFolderID != nil {
			children[*f.ParentFolderID] = append(children[*f.ParentFolderID], f.ID)
		}
	}

	found := make(map[string]bool)
	queue := []string{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range children[next] {
			if child == id || found[child] {
				continue
			}
			found[child] = true
			queue = append(queue, child)
		}
	}
	return found
}

func (w *Workspace) setName(item Item, name string) {
	if item.Kind == library.NodeFolder {
		if i := w.folderIndex(item.ID); i >= 0 {
			w.folders[i].Name = name
		}
		return
	}
	if i := w.deckIndex(item.ID); i >= 0 {
		w.decks[i].Name = name
	}
}

func (w *Workspace) mergeFolder(folder *library.Folder) {
	if folder == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.folderIndex(folder.ID); i >= 0 {
		w.folders[i] = *folder
	}
}

func (w *Workspace) mergeDeck(deck *library.Deck) {
	if deck == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.deckIndex(deck.ID); i >= 0 {
		// Server copy may not carry the computed count
		deck.CardCount = w.decks[i].CardCount
		w.decks[i] = *deck
	}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
