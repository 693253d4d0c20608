package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okorolev/cipherdrop/internal/common"
	"github.com/okorolev/cipherdrop/internal/dbx"
	"github.com/okorolev/cipherdrop/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a freshly created share. Share records are immutable, so a
// duplicate id is an error rather than an upsert.
func (r *SQLiteRepository) Insert(ctx context.Context, m *models.ShareMetadata) error {
	query := `INSERT INTO shares (id, file_name, file_size, file_type, created_at, expires_at, pass_code)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ShareID, m.FileName, m.FileSize, m.FileType, m.CreatedAt, m.ExpiresAt, m.PassCode)
	if err != nil {
		return fmt.Errorf("%w: insert share %s: %v", common.ErrLocalIndex, m.ShareID, err)
	}
	return nil
}

// GetByID returns a single share record, or (nil, nil) if the id is unknown.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ShareMetadata, error) {
	query := `SELECT id, file_name, file_size, file_type, created_at, expires_at, pass_code
			FROM shares WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	m := &models.ShareMetadata{}
	err := row.Scan(&m.ShareID, &m.FileName, &m.FileSize, &m.FileType, &m.CreatedAt, &m.ExpiresAt, &m.PassCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get share %s: %v", common.ErrLocalIndex, id, err)
	}
	return m, nil
}

// GetAll lists every locally known share, most recently created first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ShareMetadata, error) {
	query := `SELECT id, file_name, file_size, file_type, created_at, expires_at, pass_code
			FROM shares ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select shares: %v", common.ErrLocalIndex, err)
	}
	defer rows.Close()

	var result []models.ShareMetadata
	for rows.Next() {
		var m models.ShareMetadata
		if err := rows.Scan(&m.ShareID, &m.FileName, &m.FileSize, &m.FileType, &m.CreatedAt, &m.ExpiresAt, &m.PassCode); err != nil {
			return nil, fmt.Errorf("%w: scan share row: %v", common.ErrLocalIndex, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate share rows: %v", common.ErrLocalIndex, err)
	}
	return result, nil
}

// DeleteByID removes a share record. An unknown id is not an error.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shares WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete share %s: %v", common.ErrLocalIndex, id, err)
	}
	return nil
}

// GetMeta reads a value from the metadata side table, (nil, nil) if absent.
func (r *SQLiteRepository) GetMeta(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get metadata[%s]: %v", common.ErrLocalIndex, key, err)
	}
	return value, nil
}

// SetMeta upserts a value in the metadata side table.
func (r *SQLiteRepository) SetMeta(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: set metadata[%s]: %v", common.ErrLocalIndex, key, err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
