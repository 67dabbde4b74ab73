package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	models "cognicard/internal/domain/models/library"
	repo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/repository/postgres"
)

// PostgresSearchRepository implements the SearchRepository interface
type PostgresSearchRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(config *postgres.RepositoryConfig) repo.SearchRepository {
	return &PostgresSearchRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Search matches the query as a case-insensitive substring of deck names and
// descriptions and/or card fronts and backs. Deck hits rank before card hits.
func (r *PostgresSearchRepository) Search(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search options: %w", err)
	}

	// $1 = user, $2 = pattern
	args := []any{opts.UserID, "%" + escapeLike(opts.Query) + "%"}
	var branches []string

	if opts.Searches(models.SearchFieldDeckName) {
		branch := fmt.Sprintf(`
			SELECT 0 AS rank, 'deck' AS kind, d.id, d.id AS deck_id, d.name AS title, d.description AS snippet
			FROM %s d
			WHERE d.user_id = $1 AND (d.name ILIKE $2 OR d.description ILIKE $2)
		`, r.tables.Decks)
		if opts.DeckID != nil {
			branch += ` AND d.id = $3`
		}
		branches = append(branches, branch)
	}

	if opts.Searches(models.SearchFieldCardText) {
		branch := fmt.Sprintf(`
			SELECT 1 AS rank, 'card' AS kind, c.id, c.deck_id, c.front AS title, c.back AS snippet
			FROM %s c
			JOIN %s d ON d.id = c.deck_id
			WHERE d.user_id = $1 AND (c.front ILIKE $2 OR c.back ILIKE $2)
		`, r.tables.Cards, r.tables.Decks)
		if opts.DeckID != nil {
			branch += ` AND c.deck_id = $3`
		}
		branches = append(branches, branch)
	}

	if opts.DeckID != nil {
		args = append(args, *opts.DeckID)
	}
	union := strings.Join(branches, " UNION ALL ")
	executor := postgres.GetExecutor(ctx, r.pool)

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + union + `) matches`
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	limitIdx := len(args) + 1
	pageQuery := `SELECT kind, id, deck_id, title, snippet FROM (` + union + `) matches` +
		fmt.Sprintf(` ORDER BY rank, lower(title), id LIMIT $%d OFFSET $%d`, limitIdx, limitIdx+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := executor.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(&res.Kind, &res.ID, &res.DeckID, &res.Title, &res.Snippet); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	r.logger.Debug("search completed", "query", opts.Query, "total", total, "returned", len(results))
	return models.NewSearchResults(results, total, opts), nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
