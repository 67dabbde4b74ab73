package library

import (
	"context"

	"cognicard/internal/domain/models/library"
)

// TreeService defines operations for building the library tree
type TreeService interface {
	// GetTree builds the nested folder/deck tree for a user
	GetTree(ctx context.Context, userID string) ([]*library.TreeNode, error)
}
