package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cognicard/internal/config"
	models "cognicard/internal/domain/models/library"
	"cognicard/internal/domain/repositories"
	libraryRepo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/domain/services"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/metrics"
)

type deckService struct {
	deckRepo   libraryRepo.DeckRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewDeckService creates a new deck service
func NewDeckService(
	deckRepo libraryRepo.DeckRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) librarySvc.DeckService {
	return &deckService{
		deckRepo:   deckRepo,
		txManager:  txManager,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

func (s *deckService) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	return s.deckRepo.ListByUser(ctx, userID)
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	return s.deckRepo.GetByID(ctx, deckID, userID)
}

// CreateDeck creates a new deck
func (s *deckService) CreateDeck(ctx context.Context, req *librarySvc.CreateDeckRequest) (deck *models.Deck, err error) {
	defer func() { s.metrics.RecordMutation("deck", "create", err) }()

	req.Name = strings.TrimSpace(req.Name)
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, nameRules(config.MaxDeckNameLength)...),
		validation.Field(&req.Description, validation.RuneLength(0, config.MaxDeckDescriptionLength)),
	); err != nil {
		return nil, validationError(err)
	}

	if req.FolderID != nil {
		if err := s.authorizer.CanAccessFolder(ctx, req.UserID, *req.FolderID); err != nil {
			return nil, fmt.Errorf("folder: %w", err)
		}
	}

	deck = &models.Deck{
		UserID:      req.UserID,
		FolderID:    req.FolderID,
		Name:        req.Name,
		Description: req.Description,
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		siblings, err := s.deckRepo.ListByFolder(ctx, req.FolderID, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		if err := ensureUniqueName("deck", deck.Name, "", decksAsNamed(siblings)); err != nil {
			return err
		}
		return s.deckRepo.Create(ctx, deck)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck created",
		"id", deck.ID,
		"name", deck.Name,
		"user_id", req.UserID,
		"folder_id", deck.FolderID,
	)

	return deck, nil
}

// UpdateDeck renames, re-describes and/or moves a deck
func (s *deckService) UpdateDeck(ctx context.Context, userID, deckID string, req *librarySvc.UpdateDeckRequest) (deck *models.Deck, err error) {
	op := "update"
	if req.FolderID.Present {
		op = "move"
	}
	defer func() { s.metrics.RecordMutation("deck", op, err) }()

	if req.Name == nil && req.Description == nil && !req.FolderID.Present {
		return nil, validationError(fmt.Errorf("at least one field must be provided"))
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		if err := validation.Validate(req.Name, nameRules(config.MaxDeckNameLength)...); err != nil {
			return nil, validationError(fmt.Errorf("name: %w", err))
		}
	}
	if req.Description != nil {
		if err := validation.Validate(req.Description, validation.RuneLength(0, config.MaxDeckDescriptionLength)); err != nil {
			return nil, validationError(fmt.Errorf("description: %w", err))
		}
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		deck, err = s.deckRepo.GetByID(ctx, deckID, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			deck.Name = *req.Name
		}
		if req.Description != nil {
			deck.Description = *req.Description
		}
		if req.FolderID.Present {
			target := req.FolderID.Value
			if target != nil && *target == "" {
				target = nil
			}
			if target != nil {
				if err := s.authorizer.CanAccessFolder(ctx, userID, *target); err != nil {
					return fmt.Errorf("folder: %w", err)
				}
			}
			deck.FolderID = target
		}

		siblings, err := s.deckRepo.ListByFolder(ctx, deck.FolderID, userID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		if err := ensureUniqueName("deck", deck.Name, deck.ID, decksAsNamed(siblings)); err != nil {
			return err
		}

		return s.deckRepo.Update(ctx, deck)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deck updated", "id", deck.ID, "name", deck.Name, "folder_id", deck.FolderID)
	return deck, nil
}

// DeleteDeck deletes a deck together with its cards and attempts
func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID string) (err error) {
	defer func() { s.metrics.RecordMutation("deck", "delete", err) }()

	if err := s.deckRepo.Delete(ctx, deckID, userID); err != nil {
		return err
	}

	s.logger.Info("deck deleted", "id", deckID, "user_id", userID)
	return nil
}
