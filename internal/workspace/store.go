package workspace

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// RemoteStore is the library service as seen by the dashboard tree.
// Calls are scoped to the authenticated user. A sibling-name clash is reported
// as a *domain.ConflictError so callers can tell it apart from other failures.
type RemoteStore interface {
	FetchFolders(ctx context.Context) ([]library.Folder, error)
	FetchDecks(ctx context.Context) ([]library.Deck, error)

	CreateFolder(ctx context.Context, name string, parentID *string) (*library.Folder, error)
	CreateDeck(ctx context.Context, name string, folderID *string) (*library.Deck, error)

	RenameFolder(ctx context.Context, id, name string) (*library.Folder, error)
	RenameDeck(ctx context.Context, id, name string) (*library.Deck, error)

	// MoveFolder and MoveDeck take nil to move to the root
	MoveFolder(ctx context.Context, id string, newParentID *string) (*library.Folder, error)
	MoveDeck(ctx context.Context, id string, newFolderID *string) (*library.Deck, error)

	// DeleteFolder removes the folder and everything below it
	DeleteFolder(ctx context.Context, id string) error
	DeleteDeck(ctx context.Context, id string) error
}

// Item identifies a folder or deck in the tree
type Item struct {
	ID   string
	Kind library.NodeKind
}

// FolderItem returns the Item for a folder id
func FolderItem(id string) Item { return Item{ID: id, Kind: library.NodeFolder} }

// DeckItem returns the Item for a deck id
func DeckItem(id string) Item { return Item{ID: id, Kind: library.NodeDeck} }

func (i Item) String() string {
	return string(i.Kind) + " " + i.ID
}
