package client

import (
	"context"
	"net/http"

	"cognicard/internal/domain/models/library"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/httputil"
	"cognicard/internal/workspace"
)

var _ workspace.RemoteStore = (*Client)(nil)

// FetchFolders returns every folder of the user
func (c *Client) FetchFolders(ctx context.Context) ([]library.Folder, error) {
	var folders []library.Folder
	if err := c.doJSON(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// FetchDecks returns every deck of the user
func (c *Client) FetchDecks(ctx context.Context) ([]library.Deck, error) {
	var decks []library.Deck
	if err := c.doJSON(ctx, http.MethodGet, "/api/decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string, parentID *string) (*library.Folder, error) {
	var folder library.Folder
	req := librarySvc.CreateFolderRequest{Name: name, ParentFolderID: parentID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/folders", req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) CreateDeck(ctx context.Context, name string, folderID *string) (*library.Deck, error) {
	var deck library.Deck
	req := librarySvc.CreateDeckRequest{Name: name, FolderID: folderID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/decks", req, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) RenameFolder(ctx context.Context, id, name string) (*library.Folder, error) {
	return c.updateFolder(ctx, id, librarySvc.UpdateFolderRequest{Name: &name})
}

// MoveFolder sends parent_folder_id explicitly, as null for the root
func (c *Client) MoveFolder(ctx context.Context, id string, newParentID *string) (*library.Folder, error) {
	return c.updateFolder(ctx, id, librarySvc.UpdateFolderRequest{ParentFolderID: httputil.Some(newParentID)})
}

func (c *Client) updateFolder(ctx context.Context, id string, req librarySvc.UpdateFolderRequest) (*library.Folder, error) {
	var folder library.Folder
	if err := c.doJSON(ctx, http.MethodPatch, "/api/folders/"+escape(id), req, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) RenameDeck(ctx context.Context, id, name string) (*library.Deck, error) {
	return c.UpdateDeck(ctx, id, librarySvc.UpdateDeckRequest{Name: &name})
}

// MoveDeck sends folder_id explicitly, as null for the root
func (c *Client) MoveDeck(ctx context.Context, id string, newFolderID *string) (*library.Deck, error) {
	return c.UpdateDeck(ctx, id, librarySvc.UpdateDeckRequest{FolderID: httputil.Some(newFolderID)})
}

// UpdateDeck patches any combination of name, description and folder
func (c *Client) UpdateDeck(ctx context.Context, id string, req librarySvc.UpdateDeckRequest) (*library.Deck, error) {
	var deck library.Deck
	if err := c.doJSON(ctx, http.MethodPatch, "/api/decks/"+escape(id), req, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/folders/"+escape(id), nil, nil)
}

func (c *Client) DeleteDeck(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/decks/"+escape(id), nil, nil)
}

// GetDeck returns one deck with its card count
func (c *Client) GetDeck(ctx context.Context, id string) (*library.Deck, error) {
	var deck library.Deck
	if err := c.doJSON(ctx, http.MethodGet, "/api/decks/"+escape(id), nil, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// Tree returns the server-built tree
func (c *Client) Tree(ctx context.Context) ([]*library.TreeNode, error) {
	var tree []*library.TreeNode
	if err := c.doJSON(ctx, http.MethodGet, "/api/tree", nil, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
