package services

import "context"

// ResourceAuthorizer checks if a user can access resources.
// Current implementation: ownership-based (user owns the folder or deck).
//
// Services call the authorizer before operating on resources that are not
// already scoped by user id in their repository query.
type ResourceAuthorizer interface {
	// CanAccessFolder checks if user owns a folder
	CanAccessFolder(ctx context.Context, userID, folderID string) error

	// CanAccessDeck checks if user owns a deck
	CanAccessDeck(ctx context.Context, userID, deckID string) error

	// CanAccessCard checks if user owns the deck that holds a card
	CanAccessCard(ctx context.Context, userID, cardID string) error
}
