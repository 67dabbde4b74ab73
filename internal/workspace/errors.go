package workspace

import (
	"errors"
	"fmt"

	"cognicard/internal/domain"
	"cognicard/internal/domain/models/library"
)

// Local validation failures. All of them match domain.ErrValidation.
var (
	ErrEmptyName              = &domain.ValidationError{Message: "name cannot be empty"}
	ErrMoveIntoSelf           = &domain.ValidationError{Message: "cannot move a folder into itself"}
	ErrMoveIntoDescendant     = &domain.ValidationError{Message: "cannot move a folder into its own subfolder"}
	ErrNameTakenAtDestination = &domain.ValidationError{Message: "an item with this name already exists at the destination"}
)

// ErrBusy is returned when a structural edit starts while another is still in flight
var ErrBusy = errors.New("another change is still in progress")

func unknownItem(item Item) error {
	return &domain.ValidationError{Message: fmt.Sprintf("unknown %s %q", item.Kind, item.ID)}
}

func unknownFolder(id string) error {
	return &domain.ValidationError{Message: fmt.Sprintf("unknown folder %q", id)}
}

// duplicateName is the error shown for a clash, whether caught locally or reported remotely
func duplicateName(kind library.NodeKind, name, existingID string) error {
	return domain.NewDuplicateNameError(string(kind), name, existingID)
}
