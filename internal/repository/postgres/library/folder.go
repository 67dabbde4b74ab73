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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) repo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const folderColumns = `id, user_id, parent_folder_id, name, created_at, updated_at`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	if err := row.Scan(&f.ID, &f.UserID, &f.ParentFolderID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_folder_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, folder.UserID, folder.ParentFolderID, folder.Name).
		Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return r.duplicateError(ctx, folder)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder %s: %w", deref(folder.ParentFolderID), domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update updates a folder's name and parent
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_folder_id = $1, name = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, folder.ParentFolderID, folder.Name, folder.ID, folder.UserID).
		Scan(&folder.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
		}
		if postgres.IsPgDuplicateError(err) {
			return r.duplicateError(ctx, folder)
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder %s: %w", deref(folder.ParentFolderID), domain.ErrNotFound)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	return nil
}

// Delete deletes a folder; child folders, decks, cards and attempts cascade
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	r.logger.Debug("folder deleted", "folder_id", id, "user_id", userID)
	return nil
}

// ListChildren lists immediate child folders of a parent (nil = root)
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND parent_folder_id IS NOT DISTINCT FROM $2
		ORDER BY lower(name), id
	`, folderColumns, r.tables.Folders)

	return r.list(ctx, query, userID, parentID)
}

// ListByUser retrieves all folders for a user
func (r *PostgresFolderRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at, id
	`, folderColumns, r.tables.Folders)

	return r.list(ctx, query, userID)
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// duplicateError builds a ConflictError pointing at the sibling that already holds the name
func (r *PostgresFolderRepository) duplicateError(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE user_id = $1 AND parent_folder_id IS NOT DISTINCT FROM $2 AND lower(name) = lower($3)
		LIMIT 1
	`, r.tables.Folders)

	var existingID string
	// Inside a failed transaction this lookup errors too; the conflict still stands.
	if err := r.pool.QueryRow(ctx, query, folder.UserID, folder.ParentFolderID, folder.Name).Scan(&existingID); err != nil {
		r.logger.Debug("could not resolve conflicting folder", "name", folder.Name, "error", err)
	}
	return domain.NewDuplicateNameError("folder", folder.Name, existingID)
}

func deref(s *string) string {
	if s == nil {
		return "<root>"
	}
	return *s
}
