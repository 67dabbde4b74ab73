package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// FolderRepository defines data access operations for folders.
// Every method is scoped to a user; other users' folders look missing.
type FolderRepository interface {
	// Create creates a new folder and fills in ID and timestamps
	Create(ctx context.Context, folder *library.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, userID string) (*library.Folder, error)

	// Update saves name and parent changes
	Update(ctx context.Context, folder *library.Folder) error

	// Delete deletes a folder; descendants and their decks cascade
	Delete(ctx context.Context, id, userID string) error

	// ListChildren lists immediate child folders (nil = root)
	ListChildren(ctx context.Context, parentID *string, userID string) ([]library.Folder, error)

	// ListByUser retrieves all folders for a user (flat list)
	ListByUser(ctx context.Context, userID string) ([]library.Folder, error)
}
