package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/personnel/internal/pkg/logger"
)

//go:embed sql/*.sql
var schemaFS embed.FS

const resetFile = "reset.sql"

// Migrator prepares the employees schema
type Migrator struct {
	db    *pgxpool.Pool
	files fs.FS
}

// NewMigrator creates a new migrator over the embedded schema files
func NewMigrator(db *pgxpool.Pool) *Migrator {
	sub, _ := fs.Sub(schemaFS, "sql")
	return &Migrator{
		db:    db,
		files: sub,
	}
}

// Apply creates the schema. With reset set, existing tables are dropped
// first so every startup begins with an empty employees table.
func (m *Migrator) Apply(ctx context.Context, reset bool) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if reset {
		if err := m.execFile(ctx, tx, resetFile); err != nil {
			return err
		}
		logger.Info().Msg("Existing employee schema dropped")
	}

	if err := ensureMigrationTableExists(ctx, tx); err != nil {
		return err
	}

	files, err := m.migrationFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		version := strings.Split(name, "_")[0]

		applied, err := isMigrationApplied(ctx, tx, version)
		if err != nil {
			return err
		}
		if applied {
			logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
			continue
		}

		if err := m.execFile(ctx, tx, name); err != nil {
			return err
		}
		if err := recordMigration(ctx, tx, version); err != nil {
			return err
		}
		logger.Info().Str("file", name).Msg("Migration file successfully applied")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// migrationFiles lists versioned SQL files in execution order
func (m *Migrator) migrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" || name == resetFile {
			continue
		}
		sqlFiles = append(sqlFiles, name)
	}
	sort.Strings(sqlFiles)
	return sqlFiles, nil
}

func (m *Migrator) execFile(ctx context.Context, tx pgx.Tx, name string) error {
	content, err := fs.ReadFile(m.files, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error occurred during SQL execution of %s: %w", name, err)
	}
	return nil
}

func ensureMigrationTableExists(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, tx pgx.Tx, version string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func recordMigration(ctx context.Context, tx pgx.Tx, version string) error {
	_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}
