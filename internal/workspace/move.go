package workspace

import (
	"context"
	"fmt"

	"cognicard/internal/domain/models/library"
)

// MoveOutcome reports how Move settled
type MoveOutcome int

const (
	// MoveApplied means the store accepted the move
	MoveApplied MoveOutcome = iota
	// MoveNoop means the item was already under the target; nothing was sent
	MoveNoop
	// MoveRejected means local validation failed; nothing changed
	MoveRejected
	// MoveRolledBack means the store refused the move and the local change was undone
	MoveRolledBack
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveApplied:
		return "applied"
	case MoveNoop:
		return "noop"
	case MoveRejected:
		return "rejected"
	case MoveRolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("MoveOutcome(%d)", int(o))
	}
}

// snapshot is one item's record before an optimistic change
type snapshot struct {
	item   Item
	folder library.Folder
	deck   library.Deck
}

func (s snapshot) name() string {
	if s.item.Kind == library.NodeFolder {
		return s.folder.Name
	}
	return s.deck.Name
}

func (s snapshot) parent() *string {
	if s.item.Kind == library.NodeFolder {
		return s.folder.ParentFolderID
	}
	return s.deck.FolderID
}

// snapshot copies the item's record. w.mu must be held.
func (w *Workspace) snapshot(item Item) (snapshot, bool) {
	s := snapshot{item: item}
	switch item.Kind {
	case library.NodeFolder:
		i := w.folderIndex(item.ID)
		if i < 0 {
			return s, false
		}
		s.folder = w.folders[i]
		s.folder.ParentFolderID = clonePtr(s.folder.ParentFolderID)
	case library.NodeDeck:
		i := w.deckIndex(item.ID)
		if i < 0 {
			return s, false
		}
		s.deck = w.decks[i]
		s.deck.FolderID = clonePtr(s.deck.FolderID)
	default:
		return s, false
	}
	return s, true
}

// restore puts the snapshotted record back. Only this item is touched, so
// other in-flight changes keep their own state. w.mu must be held.
func (w *Workspace) restore(s snapshot) {
	switch s.item.Kind {
	case library.NodeFolder:
		if i := w.folderIndex(s.item.ID); i >= 0 {
			w.folders[i] = s.folder
		}
	case library.NodeDeck:
		if i := w.deckIndex(s.item.ID); i >= 0 {
			w.decks[i] = s.deck
		}
	}
}

// PendingMove is a validated move between Prepare and Commit.
//
//	pm, err := ws.PrepareMove(item, target) // validate, snapshot
//	pm.ApplyLocal()                         // update the flat list, notify listeners
//	err = pm.Commit(ctx)                    // remote call; restores the snapshot on failure
type PendingMove struct {
	ws      *Workspace
	item    Item
	from    *string
	to      *string
	snap    snapshot
	noop    bool
	applied bool
	settled bool
}

// Item returns the item being moved
func (m *PendingMove) Item() Item { return m.item }

// Noop reports whether the item already sits under the target
func (m *PendingMove) Noop() bool { return m.noop }

// PrepareMove validates a move against the current lists and snapshots the item.
// newParentID nil means the root.
func (w *Workspace) PrepareMove(item Item, newParentID *string) (*PendingMove, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap, ok := w.snapshot(item)
	if !ok {
		return nil, unknownItem(item)
	}

	pm := &PendingMove{
		ws:   w,
		item: item,
		from: snap.parent(),
		to:   clonePtr(newParentID),
		snap: snap,
	}

	if sameParent(pm.from, pm.to) {
		pm.noop = true
		return pm, nil
	}

	if pm.to != nil {
		if item.Kind == library.NodeFolder && *pm.to == item.ID {
			return nil, ErrMoveIntoSelf
		}
		if w.folderIndex(*pm.to) < 0 {
			return nil, unknownFolder(*pm.to)
		}
		if item.Kind == library.NodeFolder && w.descendantFolders(item.ID)[*pm.to] {
			return nil, ErrMoveIntoDescendant
		}
	}

	if _, taken := w.siblingNamed(item.Kind, pm.to, snap.name(), item.ID); taken {
		return nil, ErrNameTakenAtDestination
	}

	return pm, nil
}

// ApplyLocal points the item at its new parent in the flat list and notifies listeners
func (m *PendingMove) ApplyLocal() {
	if m.noop || m.applied {
		return
	}
	w := m.ws

	w.mu.Lock()
	switch m.item.Kind {
	case library.NodeFolder:
		if i := w.folderIndex(m.item.ID); i >= 0 {
			w.folders[i].ParentFolderID = clonePtr(m.to)
		}
	case library.NodeDeck:
		if i := w.deckIndex(m.item.ID); i >= 0 {
			w.decks[i].FolderID = clonePtr(m.to)
		}
	}
	m.applied = true
	w.mu.Unlock()

	if m.to != nil {
		w.view.Open(*m.to)
	}
	w.changed()
}

// Commit sends the move to the store. On failure the item's snapshot is
// restored and an error notification is emitted. Commit runs at most once.
func (m *PendingMove) Commit(ctx context.Context) error {
	if m.noop || m.settled {
		return nil
	}
	m.settled = true
	w := m.ws

	var err error
	switch m.item.Kind {
	case library.NodeFolder:
		var folder *library.Folder
		if folder, err = w.store.MoveFolder(ctx, m.item.ID, m.to); err == nil {
			w.mergeFolder(folder)
		}
	default:
		var deck *library.Deck
		if deck, err = w.store.MoveDeck(ctx, m.item.ID, m.to); err == nil {
			w.mergeDeck(deck)
		}
	}
	if err == nil {
		w.logger.Debug("move committed", "item", m.item.String())
		return nil
	}

	w.logger.Warn("move failed, rolling back", "item", m.item.String(), "error", err)
	if m.applied {
		w.mu.Lock()
		w.restore(m.snap)
		w.mu.Unlock()
		w.changed()
	}
	w.notifier.Error(fmt.Sprintf("could not move %s %q: %v", m.item.Kind, m.snap.name(), err))
	return err
}

// Move runs the full prepare, apply, commit cycle under the busy flag
func (w *Workspace) Move(ctx context.Context, item Item, newParentID *string) (MoveOutcome, error) {
	if err := w.acquire(); err != nil {
		return MoveRejected, w.reject(err)
	}
	defer w.release()

	pm, err := w.PrepareMove(item, newParentID)
	if err != nil {
		return MoveRejected, w.reject(err)
	}
	if pm.Noop() {
		return MoveNoop, nil
	}

	pm.ApplyLocal()
	if err := pm.Commit(ctx); err != nil {
		return MoveRolledBack, err
	}
	return MoveApplied, nil
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
