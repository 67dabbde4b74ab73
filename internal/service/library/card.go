package library

import (
	"context"
	"fmt"
	"io"
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

type cardService struct {
	cardRepo   libraryRepo.CardRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCardService creates a new card service
func NewCardService(
	cardRepo libraryRepo.CardRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) librarySvc.CardService {
	return &cardService{
		cardRepo:   cardRepo,
		txManager:  txManager,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

func (s *cardService) ListCards(ctx context.Context, userID, deckID string) ([]models.Card, error) {
	if err := s.authorizer.CanAccessDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.cardRepo.ListByDeck(ctx, deckID)
}

func (s *cardService) CreateCard(ctx context.Context, req *librarySvc.CreateCardRequest) (card *models.Card, err error) {
	defer func() { s.metrics.RecordMutation("card", "create", err) }()

	req.Front = strings.TrimSpace(req.Front)
	req.Back = strings.TrimSpace(req.Back)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Front, validation.Required, validation.RuneLength(1, config.MaxCardSideLength)),
		validation.Field(&req.Back, validation.Required, validation.RuneLength(1, config.MaxCardSideLength)),
	); err != nil {
		return nil, validationError(err)
	}

	if err := s.authorizer.CanAccessDeck(ctx, req.UserID, req.DeckID); err != nil {
		return nil, err
	}

	card = &models.Card{DeckID: req.DeckID, Front: req.Front, Back: req.Back}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Debug("card created", "id", card.ID, "deck_id", card.DeckID, "position", card.Position)
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, userID, cardID string) (err error) {
	defer func() { s.metrics.RecordMutation("card", "delete", err) }()

	if err := s.authorizer.CanAccessCard(ctx, userID, cardID); err != nil {
		return err
	}
	return s.cardRepo.Delete(ctx, cardID)
}

// ImportCSV parses the upload, then inserts every valid row in one transaction.
// Row-level problems are reported in the result; they don't abort the import.
func (s *cardService) ImportCSV(ctx context.Context, req *librarySvc.ImportCSVRequest, csvData io.Reader) (result *librarySvc.ImportResult, err error) {
	defer func() { s.metrics.RecordMutation("card", "import", err) }()

	if err := s.authorizer.CanAccessDeck(ctx, req.UserID, req.DeckID); err != nil {
		return nil, err
	}

	parsed, err := parseCardCSV(csvData, req)
	if err != nil {
		return nil, err
	}

	cards := make([]*models.Card, len(parsed.drafts))
	for i, draft := range parsed.drafts {
		cards[i] = &models.Card{DeckID: req.DeckID, Front: draft.front, Back: draft.back}
	}

	if len(cards) > 0 {
		err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
			return s.cardRepo.CreateBatch(ctx, cards)
		})
		if err != nil {
			return nil, fmt.Errorf("import cards: %w", err)
		}
	}

	s.metrics.RecordImport(parsed.summary.Created, parsed.summary.Failed)
	s.logger.Info("csv import completed",
		"deck_id", req.DeckID,
		"total_rows", parsed.summary.TotalRows,
		"created", parsed.summary.Created,
		"skipped", parsed.summary.Skipped,
		"failed", parsed.summary.Failed,
	)

	created := make([]models.Card, len(cards))
	for i, c := range cards {
		created[i] = *c
	}

	return &librarySvc.ImportResult{
		Mapping: parsed.mapping,
		Summary: parsed.summary,
		Errors:  parsed.errors,
		Cards:   created,
	}, nil
}
