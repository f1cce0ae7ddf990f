// Package client opens the local designs database and builds the
// repositories the sync layer runs on.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/planmint/designvault/internal/client/migrations"
	"github.com/planmint/designvault/internal/client/repositories/designs"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// schemaMu serializes schema creation: goose keeps global state and the
// first open of a profile database must initialize the schema at most once
// even when raced.
var schemaMu sync.Mutex

// Repositories bundles the local repositories backed by one database.
type Repositories struct {
	Designs designs.Repository
	DB      *sql.DB
}

// RunMigrations applies the embedded schema migrations. Safe to call again
// on an already-migrated database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local designs database at dsn
// and returns ready repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Repositories{
		Designs: designs.NewSQLiteRepository(db),
		DB:      db,
	}, nil
}
