package identities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Create(ctx context.Context, identity *Identity) error {
	var embedding []byte
	if identity.Kind == KindVoice {
		var err error
		embedding, err = json.Marshal(identity.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
	}

	// ON CONFLICT DO NOTHING keeps the insert atomic: zero rows affected
	// means the name is already enrolled and the stored record is untouched.
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, name, kind, embedding, password_hash, password_salt, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(name) DO NOTHING
	`, identity.ID, identity.Name, string(identity.Kind), embedding,
		identity.PasswordHash, identity.PasswordSalt, identity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert identity %s: %w", identity.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert identity %s: %w", identity.Name, err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, embedding, password_hash, password_salt, created_at, last_login
		FROM identities WHERE name = ?
	`, name)

	identity, err := scanIdentity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity %s: %w", name, err)
	}
	return identity, nil
}

func (r *SQLiteRepository) AllVoice(ctx context.Context) ([]VoiceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, embedding FROM identities WHERE kind = ?
	`, string(KindVoice))
	if err != nil {
		return nil, fmt.Errorf("failed to list voice identities: %w", err)
	}
	defer rows.Close()

	records := make([]VoiceRecord, 0)
	for rows.Next() {
		var (
			rec VoiceRecord
			raw []byte
		)
		if err := rows.Scan(&rec.Name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan voice identity: %w", err)
		}
		if err := json.Unmarshal(raw, &rec.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", rec.Name, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voice identities: %w", err)
	}
	return records, nil
}

func (r *SQLiteRepository) UpdateLastLogin(ctx context.Context, name string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE identities SET last_login = ? WHERE name = ?
	`, at, name)
	if err != nil {
		return fmt.Errorf("failed to update last login for %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete identity %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete identity %s: %w", name, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM identities`)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan identity name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identity names: %w", err)
	}
	return names, nil
}

func scanIdentity(scan func(dest ...any) error) (*Identity, error) {
	var (
		identity  Identity
		kind      string
		embedding []byte
		lastLogin sql.NullTime
	)
	if err := scan(&identity.ID, &identity.Name, &kind, &embedding,
		&identity.PasswordHash, &identity.PasswordSalt,
		&identity.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}

	identity.Kind = Kind(kind)
	if identity.Kind == KindVoice && len(embedding) > 0 {
		if err := json.Unmarshal(embedding, &identity.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding: %w", err)
		}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		identity.LastLogin = &t
	}
	return &identity, nil
}
