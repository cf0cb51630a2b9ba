package db

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// Migrate creates the dataset schema, applying each embedded migration once.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	return MigrateContext(context.Background(), db, logger)
}

// MigrateContext is Migrate with cancellation.
func MigrateContext(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	files, err := migrationFiles()
	if err != nil {
		return err
	}

	applied := 0
	for _, name := range files {
		version := strings.SplitN(name, "_", 2)[0]

		done, err := isApplied(ctx, db, version)
		if err != nil {
			return errors.Wrapf(err, "check %s", name)
		}
		if done {
			continue
		}

		body, err := migrations.ReadFile(path.Join(migrationsDir, name))
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		if err := apply(ctx, db, version, string(body)); err != nil {
			return errors.Wrapf(err, "apply %s", name)
		}
		applied++

		if logger != nil {
			logger.Debugw("Applied migration", "migration", name, "symbol", sym.DB)
		}
	}

	if logger != nil && applied > 0 {
		logger.Infow("Migrations complete", "applied", applied, "symbol", sym.DB)
	}
	return nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// isApplied reports whether version is recorded. Before migration 000 has run
// the bookkeeping table does not exist, which counts as not applied.
func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
	if err != nil {
		if IsMissingTable(err) && version == "000" {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func apply(ctx context.Context, db *sql.DB, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return errors.Wrap(err, "execute")
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return errors.Wrap(err, "record version")
	}
	return errors.Wrap(tx.Commit(), "commit")
}
