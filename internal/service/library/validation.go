package library

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cognicard/internal/domain"
	models "cognicard/internal/domain/models/library"
)

var noSlash = validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("name cannot contain slashes")

// nameRules validates a folder or deck name after trimming
func nameRules(maxLen int) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("name cannot be empty"),
		validation.RuneLength(1, maxLen),
		noSlash,
	}
}

// validationError wraps an ozzo error so handlers map it to 400
func validationError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// ensureUniqueName returns a duplicate-name conflict when another sibling of the
// same kind already uses name, ignoring case. excludeID is the item being renamed or moved.
func ensureUniqueName(resourceType, name, excludeID string, siblings []namedItem) error {
	for _, sibling := range siblings {
		if sibling.id != excludeID && strings.EqualFold(sibling.name, name) {
			return domain.NewDuplicateNameError(resourceType, name, sibling.id)
		}
	}
	return nil
}

type namedItem struct {
	id   string
	name string
}

func foldersAsNamed(folders []models.Folder) []namedItem {
	items := make([]namedItem, len(folders))
	for i, f := range folders {
		items[i] = namedItem{id: f.ID, name: f.Name}
	}
	return items
}

func decksAsNamed(decks []models.Deck) []namedItem {
	items := make([]namedItem, len(decks))
	for i, d := range decks {
		items[i] = namedItem{id: d.ID, name: d.Name}
	}
	return items
}

// folderGetter is the slice of FolderRepository the ancestor walk needs
type folderGetter interface {
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)
}

// validateNoCircularReference rejects moving folderID under newParentID when
// newParentID is the folder itself or one of its descendants. It walks up from
// the new parent; a visited set guards against loops already in the data.
func validateNoCircularReference(ctx context.Context, repo folderGetter, userID, folderID, newParentID string) error {
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move a folder into itself", domain.ErrValidation)
	}

	visited := map[string]bool{}
	current := newParentID
	for current != "" {
		if current == folderID {
			return fmt.Errorf("%w: cannot move a folder into its own subfolder", domain.ErrValidation)
		}
		if visited[current] {
			return nil
		}
		visited[current] = true

		folder, err := repo.GetByID(ctx, current, userID)
		if err != nil {
			return fmt.Errorf("walk folder ancestors: %w", err)
		}
		if folder.ParentFolderID == nil {
			return nil
		}
		current = *folder.ParentFolderID
	}

	return nil
}
