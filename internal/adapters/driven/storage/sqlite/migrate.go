package sqlite

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/storage/sqlite/migrations"
)

type migration struct {
	version int
	file    string
}

// Migrate runs, in version order, every up script newer than the highest
// version in schema_migrations. Each script commits with its version row.
func (s *Store) Migrate(ctx context.Context) error {
	const ledger = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.ExecContext(ctx, ledger); err != nil {
		return fmt.Errorf("sqlite: migrations ledger: %w", err)
	}

	var applied int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&applied); err != nil {
		return fmt.Errorf("sqlite: schema version: %w", err)
	}

	pending, err := migrationsAfter(applied)
	if err != nil {
		return err
	}
	for _, m := range pending {
		script, err := fs.ReadFile(migrations.FS, m.file)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		if err := s.runMigration(ctx, m.version, string(script)); err != nil {
			return fmt.Errorf("sqlite: migration %s: %w", m.file, err)
		}
	}
	return nil
}

func migrationsAfter(version int) ([]migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list migrations: %w", err)
	}
	var out []migration
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		v, err := strconv.Atoi(prefix)
		if err != nil || v <= version {
			continue
		}
		out = append(out, migration{version: v, file: e.Name()})
	}
	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	return out, nil
}

func (s *Store) runMigration(ctx context.Context, version int, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
