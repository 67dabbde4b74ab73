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

// PostgresDeckRepository implements the DeckRepository interface
type PostgresDeckRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(config *postgres.RepositoryConfig) repo.DeckRepository {
	return &PostgresDeckRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// selectDecks selects decks with a computed card count; callers append WHERE/ORDER.
func (r *PostgresDeckRepository) selectDecks() string {
	return fmt.Sprintf(`
		SELECT d.id, d.user_id, d.folder_id, d.name, d.description,
		       (SELECT COUNT(*) FROM %s c WHERE c.deck_id = d.id) AS card_count,
		       d.created_at, d.updated_at
		FROM %s d
	`, r.tables.Cards, r.tables.Decks)
}

func scanDeck(row pgx.Row) (*models.Deck, error) {
	var d models.Deck
	err := row.Scan(&d.ID, &d.UserID, &d.FolderID, &d.Name, &d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a new deck
func (r *PostgresDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Decks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, deck.UserID, deck.FolderID, deck.Name, deck.Description).
		Scan(&deck.ID, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.duplicateError(ctx, deck)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", deref(deck.FolderID), domain.ErrNotFound)
		}
		return fmt.Errorf("create deck: %w", err)
	}

	return nil
}

// GetByID retrieves a deck by ID
func (r *PostgresDeckRepository) GetByID(ctx context.Context, id, userID string) (*models.Deck, error) {
	query := r.selectDecks() + ` WHERE d.id = $1 AND d.user_id = $2`

	executor := postgres.GetExecutor(ctx, r.pool)
	deck, err := scanDeck(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}

	return deck, nil
}

// Update updates a deck's name, description and folder
func (r *PostgresDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, name = $2, description = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`, r.tables.Decks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, deck.FolderID, deck.Name, deck.Description, deck.ID, deck.UserID).
		Scan(&deck.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("deck %s: %w", deck.ID, domain.ErrNotFound)
		}
		if postgres.IsPgDuplicateError(err) {
			return r.duplicateError(ctx, deck)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", deref(deck.FolderID), domain.ErrNotFound)
		}
		return fmt.Errorf("update deck: %w", err)
	}

	return nil
}

// Delete deletes a deck; its cards and attempts cascade
func (r *PostgresDeckRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Decks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists decks directly inside a folder (nil = root)
func (r *PostgresDeckRepository) ListByFolder(ctx context.Context, folderID *string, userID string) ([]models.Deck, error) {
	query := r.selectDecks() + `
		WHERE d.user_id = $1 AND d.folder_id IS NOT DISTINCT FROM $2
		ORDER BY lower(d.name), d.id`
	return r.list(ctx, query, userID, folderID)
}

// ListByUser retrieves all decks for a user
func (r *PostgresDeckRepository) ListByUser(ctx context.Context, userID string) ([]models.Deck, error) {
	query := r.selectDecks() + `
		WHERE d.user_id = $1
		ORDER BY d.created_at, d.id`
	return r.list(ctx, query, userID)
}

func (r *PostgresDeckRepository) list(ctx context.Context, query string, args ...any) ([]models.Deck, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, *deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decks: %w", err)
	}

	return decks, nil
}

func (r *PostgresDeckRepository) duplicateError(ctx context.Context, deck *models.Deck) error {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE user_id = $1 AND folder_id IS NOT DISTINCT FROM $2 AND lower(name) = lower($3)
		LIMIT 1
	`, r.tables.Decks)

	var existingID string
	if err := r.pool.QueryRow(ctx, query, deck.UserID, deck.FolderID, deck.Name).Scan(&existingID); err != nil {
		r.logger.Debug("could not resolve conflicting deck", "name", deck.Name, "error", err)
	}
	return domain.NewDuplicateNameError("deck", deck.Name, existingID)
}
