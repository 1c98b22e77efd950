package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mamishal/echoos/internal/common"
	"github.com/mamishal/echoos/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, row *Row) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, ciphertext, nonce) VALUES (?, ?, ?)
	`, row.ID, row.Ciphertext, row.Nonce)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Row, error) {
	row := &Row{ID: id}
	err := r.db.QueryRowContext(ctx, `
		SELECT ciphertext, nonce FROM sessions WHERE id = ?
	`, id).Scan(&row.Ciphertext, &row.Nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, ciphertext, nonce FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Ciphertext, &row.Nonce); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return result, nil
}
