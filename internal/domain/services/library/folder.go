package library

import (
	"context"

	"cognicard/internal/domain/models/library"
	"cognicard/internal/httputil"
)

// FolderService handles folder business logic
type FolderService interface {
	// ListFolders returns the user's folders as a flat list
	ListFolders(ctx context.Context, userID string) ([]library.Folder, error)

	// CreateFolder creates a folder; sibling names must be unique ignoring case
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*library.Folder, error)

	// UpdateFolder renames and/or moves a folder
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*library.Folder, error)

	// DeleteFolder deletes a folder and everything below it
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID         string  `json:"-"` // Set by handler from auth context
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id,omitempty"` // nil = root
}

// UpdateFolderRequest represents a folder update request.
// ParentFolderID is tri-state: absent = keep, null = move to root, id = move into folder.
type UpdateFolderRequest struct {
	Name           *string                 `json:"name,omitempty"`
	ParentFolderID httputil.OptionalString `json:"parent_folder_id,omitzero"`
}
