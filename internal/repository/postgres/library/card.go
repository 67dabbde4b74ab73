package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cognicard/internal/domain"
	models "cognicard/internal/domain/models/library"
	repo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/repository/postgres"
)

// PostgresCardRepository implements the CardRepository interface
type PostgresCardRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewCardRepository creates a new card repository
func NewCardRepository(config *postgres.RepositoryConfig) repo.CardRepository {
	return &PostgresCardRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const cardColumns = `id, deck_id, front, back, position, created_at, updated_at`

func scanCard(row pgx.Row) (*models.Card, error) {
	var c models.Card
	if err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create appends a card to the end of its deck
func (r *PostgresCardRepository) Create(ctx context.Context, card *models.Card) error {
	return r.CreateBatch(ctx, []*models.Card{card})
}

// CreateBatch appends cards in order. Callers wanting all-or-nothing run it inside ExecTx.
func (r *PostgresCardRepository) CreateBatch(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	executor := postgres.GetExecutor(ctx, r.pool)

	deckID := cards[0].DeckID
	var next int
	maxQuery := fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) + 1 FROM %s WHERE deck_id = $1`, r.tables.Cards)
	if err := executor.QueryRow(ctx, maxQuery, deckID).Scan(&next); err != nil {
		return fmt.Errorf("next card position: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (deck_id, front, back, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Cards)

	for _, card := range cards {
		if card.DeckID != deckID {
			return fmt.Errorf("batch mixes decks %s and %s: %w", deckID, card.DeckID, domain.ErrValidation)
		}
		card.Position = next
		err := executor.QueryRow(ctx, insert, card.DeckID, card.Front, card.Back, card.Position).
			Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
		if err != nil {
			if postgres.IsPgForeignKeyError(err) {
				return fmt.Errorf("deck %s: %w", card.DeckID, domain.ErrNotFound)
			}
			return fmt.Errorf("create card: %w", err)
		}
		next++
	}

	return nil
}

// GetByIDOnly retrieves a card without ownership scoping.
// Use when authorization is handled separately (ResourceAuthorizer).
func (r *PostgresCardRepository) GetByIDOnly(ctx context.Context, id string) (*models.Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, cardColumns, r.tables.Cards)

	executor := postgres.GetExecutor(ctx, r.pool)
	card, err := scanCard(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get card: %w", err)
	}

	return card, nil
}

// ListByDeck lists a deck's cards in position order
func (r *PostgresCardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Card, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE deck_id = $1
		ORDER BY position, id
	`, cardColumns, r.tables.Cards)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// Delete deletes a card
func (r *PostgresCardRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Cards)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
