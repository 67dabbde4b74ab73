package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the library tables and indexes if they don't exist.
//
// Sibling names are unique per user, parent and lower(name). COALESCE folds the
// root level (NULL parent) onto a fixed uuid so root siblings collide too.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid extension: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			parent_folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL CHECK (length(btrim(name)) > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (parent_folder_id IS NULL OR parent_folder_id <> id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Decks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL CHECK (length(btrim(name)) > 0),
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Cards + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			deck_id UUID NOT NULL REFERENCES ` + tables.Decks + `(id) ON DELETE CASCADE,
			front TEXT NOT NULL,
			back TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Attempts + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			deck_id UUID NOT NULL REFERENCES ` + tables.Decks + `(id) ON DELETE CASCADE,
			correct INTEGER NOT NULL CHECK (correct >= 0),
			total INTEGER NOT NULL CHECK (total > 0 AND correct <= total),
			duration_ms BIGINT NOT NULL CHECK (duration_ms >= 0),
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	const rootUUID = `'00000000-0000-0000-0000-000000000000'::uuid`
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]sfolders_sibling_name ON ` + tables.Folders +
			`(user_id, COALESCE(parent_folder_id, ` + rootUUID + `), lower(name))`,
		`CREATE INDEX IF NOT EXISTS idx_%[1]sfolders_user_parent ON ` + tables.Folders + `(user_id, parent_folder_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]sdecks_sibling_name ON ` + tables.Decks +
			`(user_id, COALESCE(folder_id, ` + rootUUID + `), lower(name))`,
		`CREATE INDEX IF NOT EXISTS idx_%[1]sdecks_user_folder ON ` + tables.Decks + `(user_id, folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_%[1]scards_deck_position ON ` + tables.Cards + `(deck_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_%[1]sattempts_user_completed ON ` + tables.Attempts + `(user_id, completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_%[1]sattempts_deck ON ` + tables.Attempts + `(deck_id)`,
	}
	for _, idx := range indexes {
		statements = append(statements, fmt.Sprintf(idx, tablePrefix))
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema (%s): %w", firstLine(stmt), err)
		}
	}

	return nil
}

// DropSchema removes every library table. Used by the seed tool's reset mode.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{tables.Attempts, tables.Cards, tables.Decks, tables.Folders} {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
