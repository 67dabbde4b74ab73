package auth

import (
	"context"
	"fmt"

	libraryRepo "cognicard/internal/domain/repositories/library"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// Folders and decks carry their owner; cards are owned through their deck.
// A resource owned by someone else is reported as not found, so ids cannot
// be probed across accounts.
type OwnerBasedAuthorizer struct {
	folderRepo libraryRepo.FolderRepository
	deckRepo   libraryRepo.DeckRepository
	cardRepo   libraryRepo.CardRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	folderRepo libraryRepo.FolderRepository,
	deckRepo libraryRepo.DeckRepository,
	cardRepo libraryRepo.CardRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		folderRepo: folderRepo,
		deckRepo:   deckRepo,
		cardRepo:   cardRepo,
	}
}

// CanAccessFolder checks if user owns the folder
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	// GetByID filters by user; another user's folder comes back as ErrNotFound
	if _, err := a.folderRepo.GetByID(ctx, folderID, userID); err != nil {
		return fmt.Errorf("check folder access: %w", err)
	}
	return nil
}

// CanAccessDeck checks if user owns the deck
func (a *OwnerBasedAuthorizer) CanAccessDeck(ctx context.Context, userID, deckID string) error {
	if _, err := a.deckRepo.GetByID(ctx, deckID, userID); err != nil {
		return fmt.Errorf("check deck access: %w", err)
	}
	return nil
}

// CanAccessCard checks if user owns the deck that holds the card
func (a *OwnerBasedAuthorizer) CanAccessCard(ctx context.Context, userID, cardID string) error {
	card, err := a.cardRepo.GetByIDOnly(ctx, cardID)
	if err != nil {
		return fmt.Errorf("get card for auth: %w", err)
	}
	return a.CanAccessDeck(ctx, userID, card.DeckID)
}
