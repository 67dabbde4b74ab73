package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cognicard/internal/domain"
	models "cognicard/internal/domain/models/library"
	repo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/repository/postgres"
)

// PostgresAttemptRepository implements the AttemptRepository interface
type PostgresAttemptRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(config *postgres.RepositoryConfig) repo.AttemptRepository {
	return &PostgresAttemptRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create records an attempt
func (r *PostgresAttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, deck_id, correct, total, duration_ms, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.Attempts)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		attempt.UserID,
		attempt.DeckID,
		attempt.Correct,
		attempt.Total,
		attempt.DurationMS,
		attempt.CompletedAt,
	).Scan(&attempt.ID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("deck %s: %w", attempt.DeckID, domain.ErrNotFound)
		}
		return fmt.Errorf("create attempt: %w", err)
	}

	return nil
}

// StatsByDeck aggregates every attempt the user made on a deck
func (r *PostgresAttemptRepository) StatsByDeck(ctx context.Context, deckID, userID string) (*models.DeckStats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(correct), 0),
		       MIN(duration_ms),
		       MAX(completed_at)
		FROM %s
		WHERE deck_id = $1 AND user_id = $2
	`, r.tables.Attempts)

	stats := &models.DeckStats{DeckID: deckID}
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, deckID, userID).Scan(
		&stats.Attempts,
		&stats.CardsSeen,
		&stats.CardsCorrect,
		&stats.BestDurationMS,
		&stats.LastStudiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("deck stats: %w", err)
	}

	if stats.CardsSeen > 0 {
		stats.Accuracy = float64(stats.CardsCorrect) / float64(stats.CardsSeen)
	}

	return stats, nil
}

// ListCompletionTimes returns the user's attempt completion times since a point in time, oldest first
func (r *PostgresAttemptRepository) ListCompletionTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	query := fmt.Sprintf(`
		SELECT completed_at FROM %s
		WHERE user_id = $1 AND completed_at >= $2
		ORDER BY completed_at
	`, r.tables.Attempts)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list completion times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan completion time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion times: %w", err)
	}

	return times, nil
}
