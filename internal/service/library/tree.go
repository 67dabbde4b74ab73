package library

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	models "cognicard/internal/domain/models/library"
	libraryRepo "cognicard/internal/domain/repositories/library"
	librarySvc "cognicard/internal/domain/services/library"
)

type treeService struct {
	folderRepo libraryRepo.FolderRepository
	deckRepo   libraryRepo.DeckRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo libraryRepo.FolderRepository,
	deckRepo libraryRepo.DeckRepository,
	logger *slog.Logger,
) librarySvc.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		deckRepo:   deckRepo,
		logger:     logger,
	}
}

// GetTree fetches both flat lists concurrently and nests them
func (s *treeService) GetTree(ctx context.Context, userID string) ([]*models.TreeNode, error) {
	var (
		folders []models.Folder
		decks   []models.Deck
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.folderRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get folders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		decks, err = s.deckRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get decks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tree := models.BuildTree(folders, decks)

	s.logger.Debug("tree built",
		"user_id", userID,
		"folders", len(folders),
		"decks", len(decks),
		"roots", len(tree),
	)

	return tree, nil
}
