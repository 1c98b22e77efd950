package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mamishal/echoos/internal/common"
	"github.com/mamishal/echoos/internal/cryptox"
	"github.com/mamishal/echoos/internal/dbx"
	"github.com/mamishal/echoos/internal/logging"
	"github.com/mamishal/echoos/internal/repositories/sessions"
)

// DefaultSessionTimeout is the session lifetime applied when the config
// does not override it.
const DefaultSessionTimeout = 30 * time.Minute

// sessionIDBytes is the entropy of a session token; the hex-encoded id is
// twice this long.
const sessionIDBytes = 32

// SessionRecord is the plaintext view of a session. It exists decrypted
// only in memory; at rest the record is sealed with the process key.
// A record is immutable once created, except for deletion.
type SessionRecord struct {
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager owns the session store: creation, validation, revocation,
// and the periodic expiry sweep. Records are encrypted with AES-GCM before
// they reach the repository, so corrupt or foreign rows fail authentication
// on decrypt and are treated as expired (fail-closed).
type SessionManager struct {
	db   *sql.DB
	repo sessions.Repository
	key  []byte
	log  logging.Logger
}

func NewSessionManager(db *sql.DB, key []byte, log logging.Logger) *SessionManager {
	return &SessionManager{
		db:   db,
		repo: sessions.NewSQLiteRepository(db),
		key:  key,
		log:  log.With("component", "sessions"),
	}
}

// Create issues a new session for identity expiring at now+timeout and
// returns its opaque id. The id is 32 random bytes hex-encoded; it cannot
// be inverted to recover the identity without the store and the key.
func (m *SessionManager) Create(ctx context.Context, identity string, now time.Time, timeout time.Duration) (string, error) {
	id, err := common.MakeRandHexString(sessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	record := SessionRecord{
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(timeout),
	}

	ciphertext, nonce, err := cryptox.SealRecord(record, m.key)
	if err != nil {
		return "", fmt.Errorf("seal session record: %w", err)
	}

	row := &sessions.Row{ID: id, Ciphertext: ciphertext, Nonce: nonce}
	if err := m.repo.Put(ctx, row); err != nil {
		return "", fmt.Errorf("%w: store session: %w", common.ErrPersistence, err)
	}

	m.log.Info(ctx, "session created", "identity", identity, "expires_at", record.ExpiresAt)
	return id, nil
}

// Validate returns the identity bound to id if the session exists, decrypts
// cleanly, and has not expired at now. Every other outcome, including a
// corrupt or tampered record, reports an invalid session without error.
func (m *SessionManager) Validate(ctx context.Context, id string, now time.Time) (string, bool) {
	row, err := m.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			m.log.Error(ctx, "session lookup failed", "error", err)
		}
		return "", false
	}

	var record SessionRecord
	if err := cryptox.OpenRecord(row.Ciphertext, row.Nonce, m.key, &record); err != nil {
		m.log.Warn(ctx, "session record failed to decrypt, treating as invalid", "session_id", id)
		return "", false
	}

	if !now.Before(record.ExpiresAt) {
		return "", false
	}
	return record.Identity, true
}

// Revoke deletes the session record. Revoking an unknown id is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, id string) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: revoke session: %w", common.ErrPersistence, err)
	}
	return nil
}

// CleanupExpired removes every session whose expiry is before now, along
// with any record that fails to decrypt: unreadable session data is never
// trusted, and poison records are purged rather than retried forever. Each
// record is evaluated independently; the removals happen in one
// transaction. Returns the number of records removed.
func (m *SessionManager) CleanupExpired(ctx context.Context, now time.Time) (int, error) {
	rows, err := m.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: scan sessions: %w", common.ErrPersistence, err)
	}

	expired := make([]string, 0)
	for _, row := range rows {
		var record SessionRecord
		if err := cryptox.OpenRecord(row.Ciphertext, row.Nonce, m.key, &record); err != nil {
			m.log.Warn(ctx, "purging unreadable session record", "session_id", row.ID)
			expired = append(expired, row.ID)
			continue
		}
		if record.ExpiresAt.Before(now) {
			expired = append(expired, row.ID)
		}
	}

	if len(expired) == 0 {
		return 0, nil
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := sessions.NewSQLiteRepository(tx)
		for _, id := range expired {
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: delete expired sessions: %w", common.ErrPersistence, err)
	}

	m.log.Info(ctx, "cleaned up expired sessions", "count", len(expired))
	return len(expired), nil
}
