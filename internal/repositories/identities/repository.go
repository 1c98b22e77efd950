// Package identities implements the credential store: the durable mapping
// of identity name to enrolled credential record.
package identities

import (
	"context"
	"time"
)

// Kind is the credential kind chosen at enrollment. It is fixed for the
// lifetime of an identity; there is no migration between kinds.
type Kind string

const (
	KindVoice    Kind = "voice"
	KindPassword Kind = "password"
)

// Identity is one enrolled principal. Exactly one of the credential field
// groups is populated, according to Kind: Embedding for voice identities,
// PasswordHash/PasswordSalt for password identities. Plaintext passwords
// and raw audio are never stored.
type Identity struct {
	ID           string
	Name         string
	Kind         Kind
	Embedding    []float64
	PasswordHash []byte
	PasswordSalt []byte
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// VoiceRecord is the projection of a voice identity used by the matcher.
type VoiceRecord struct {
	Name      string
	Embedding []float64
}

// Repository is the credential store contract.
type Repository interface {
	// Create inserts a new identity. Fails with common.ErrAlreadyExists if
	// the name is taken, leaving the existing record untouched.
	Create(ctx context.Context, identity *Identity) error

	// GetByName returns the identity or common.ErrNotFound.
	GetByName(ctx context.Context, name string) (*Identity, error)

	// AllVoice returns name and embedding for every voice-kind identity.
	AllVoice(ctx context.Context) ([]VoiceRecord, error)

	// UpdateLastLogin stamps the identity's last successful authentication.
	// A no-op when the name is absent.
	UpdateLastLogin(ctx context.Context, name string, at time.Time) error

	// Delete removes the identity and reports whether a record was removed.
	Delete(ctx context.Context, name string) (bool, error)

	// ListNames returns the names of all enrolled identities. Order is
	// not significant.
	ListNames(ctx context.Context) ([]string, error)
}
