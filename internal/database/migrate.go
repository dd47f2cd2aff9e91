// migrate.go brings the PodPicker schema up to date at startup.
//
// The SQL lives in migrations/ as numbered up/down pairs (transcripts,
// api_keys, users, analyses, saved_topics). golang-migrate records the
// applied version in schema_migrations, so restarting against an
// already-current database is a no-op.
package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source for migrations/
)

// RunMigrations applies pending migrations from migrationsPath.
// It refuses to run against a dirty schema: a half-applied migration
// needs a human decision, not an automatic retry on every boot.
func (db *DB) RunMigrations(migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}

	if _, dirty, err := m.Version(); err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	} else if dirty {
		return fmt.Errorf("schema is dirty; resolve the failed migration before starting")
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("📦 Schema already up to date")
	case err != nil:
		return fmt.Errorf("applying migrations: %w", err)
	default:
		version, _, _ := m.Version()
		log.Printf("📦 Schema migrated to version %d", version)
	}

	return nil
}
