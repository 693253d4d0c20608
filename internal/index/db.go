package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/okorolev/cipherdrop/internal/dbx"
	"github.com/okorolev/cipherdrop/internal/index/migrations"
)

const clientIDKey = "client_id"

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the index database at dsn, applies
// migrations and returns a ready repository. The caller owns db.Close.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, *SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open index db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate index db: %w", err)
	}

	return db, NewSQLiteRepository(db), nil
}

// EnsureClientID returns the per-install client id, generating and
// persisting one on first use. The get-then-set runs in a transaction so
// two concurrent first runs cannot persist different ids. The id only
// labels log records and has no protocol meaning.
func EnsureClientID(ctx context.Context, db *sql.DB) (string, error) {
	var id string

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		v, err := repo.GetMeta(ctx, clientIDKey)
		if err != nil {
			return err
		}
		if len(v) > 0 {
			id = string(v)
			return nil
		}

		id = uuid.NewString()
		return repo.SetMeta(ctx, clientIDKey, []byte(id))
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
