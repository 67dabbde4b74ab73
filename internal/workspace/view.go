package workspace

import (
	"sync"

	"cognicard/internal/domain/models/library"
)

// ViewState is the per-session view of the tree: which folders are expanded
// and which node is being renamed inline. It is never persisted.
// Safe for concurrent use; the hover-expand timer writes to it from its own goroutine.
type ViewState struct {
	mu        sync.RWMutex
	open      map[string]bool
	editingID string
}

// NewViewState returns a view with every folder collapsed
func NewViewState() *ViewState {
	return &ViewState{open: make(map[string]bool)}
}

func (v *ViewState) IsOpen(folderID string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.open[folderID]
}

// Open expands a folder. Returns false if it was already open.
func (v *ViewState) Open(folderID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open[folderID] {
		return false
	}
	v.open[folderID] = true
	return true
}

func (v *ViewState) Close(folderID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.open, folderID)
}

// Toggle flips a folder and returns its new state
func (v *ViewState) Toggle(folderID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open[folderID] {
		delete(v.open, folderID)
		return false
	}
	v.open[folderID] = true
	return true
}

// OpenAll expands every folder in tree
func (v *ViewState) OpenAll(tree []*library.TreeNode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	library.Walk(tree, func(node *library.TreeNode, _ int) bool {
		if node.IsFolder() {
			v.open[node.ID] = true
		}
		return true
	})
}

// OpenFolders returns the expanded folder ids
func (v *ViewState) OpenFolders() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.open))
	for id := range v.open {
		ids = append(ids, id)
	}
	return ids
}

func (v *ViewState) StartEditing(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editingID = id
}

// StopEditing clears the inline editor if it is still on id
func (v *ViewState) StopEditing(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editingID == id {
		v.editingID = ""
	}
}

func (v *ViewState) EditingID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.editingID
}

func (v *ViewState) forget(ids map[string]bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id := range ids {
		delete(v.open, id)
		if v.editingID == id {
			v.editingID = ""
		}
	}
}
