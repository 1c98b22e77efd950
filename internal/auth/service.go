// Package auth implements the authentication and session subsystem of the
// assistant: identity enrollment with either a voice signature or a
// password, biometric matching against enrolled embeddings, and encrypted,
// time-bounded sessions. This is the assistant's trust boundary; the
// command layer must refuse to execute anything while IsAuthenticated
// reports false.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamishal/echoos/internal/common"
	"github.com/mamishal/echoos/internal/cryptox"
	"github.com/mamishal/echoos/internal/logging"
	"github.com/mamishal/echoos/internal/repositories/identities"
	"github.com/mamishal/echoos/internal/speech"
	"github.com/mamishal/echoos/internal/timex"
	"github.com/mamishal/echoos/internal/voice"
)

// Config holds the tunables of the authentication service.
type Config struct {
	MatchThreshold  float64
	SessionTimeout  time.Duration
	CaptureDuration time.Duration
	SampleRate      int
}

// DefaultConfig returns the production defaults: conservative matching,
// 30-minute sessions, 5-second captures at 16 kHz.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:  DefaultMatchThreshold,
		SessionTimeout:  DefaultSessionTimeout,
		CaptureDuration: 5 * time.Second,
		SampleRate:      16000,
	}
}

// Credentials carries what the caller could collect for an authentication
// attempt. Name and Password together select the password branch; otherwise
// a live voice sample is captured and matched biometrically.
type Credentials struct {
	Name     string
	Password []byte
}

// Service orchestrates enrollment and authentication over the credential
// store, the biometric matcher, and the session store. There is exactly one
// "current" authenticated identity per Service; it is a convenience cache,
// the session store remains the source of truth.
//
// Enroll, Authenticate, Logout, and DeleteIdentity serialize their store
// read-modify-write sequences on an internal mutex. IsAuthenticated and
// CurrentIdentity only read the cache and never block on an in-flight
// capture.
type Service struct {
	log      logging.Logger
	clock    timex.Clock
	ids      identities.Repository
	sessions *SessionManager
	recorder voice.Recorder
	encoder  voice.Encoder
	speaker  speech.Speaker
	cfg      Config

	mu sync.Mutex // serializes store mutations

	cacheMu        sync.RWMutex
	currentName    string
	currentSession string
}

// NewService wires the authentication service. key is the process key from
// GetOrCreateKey; recorder and encoder are the external voice engines.
func NewService(db *sql.DB, key []byte, recorder voice.Recorder, encoder voice.Encoder,
	speaker speech.Speaker, clock timex.Clock, log logging.Logger, cfg Config) *Service {
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = DefaultMatchThreshold
	}
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = DefaultSessionTimeout
	}
	if cfg.CaptureDuration == 0 {
		cfg.CaptureDuration = DefaultConfig().CaptureDuration
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}

	return &Service{
		log:      log.With("component", "auth"),
		clock:    clock,
		ids:      identities.NewSQLiteRepository(db),
		sessions: NewSessionManager(db, key, log),
		recorder: recorder,
		encoder:  encoder,
		speaker:  speaker,
		cfg:      cfg,
	}
}

// EnrollVoice captures a voice sample, embeds it, and enrolls name with a
// voice credential. Fails with common.ErrAlreadyExists when the name is
// taken (without touching the stored record) and with
// common.ErrCaptureFailed when capture or embedding fails, including a
// near-silent capture. A cancelled capture commits nothing.
func (s *Service) EnrollVoice(ctx context.Context, name string) error {
	if name == "" {
		return common.ErrNoCredentialProvided
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ids.GetByName(ctx, name); err == nil {
		s.speaker.Speak("User already exists")
		return common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	s.speaker.Speak(fmt.Sprintf("Please speak clearly for %d seconds", int(s.cfg.CaptureDuration.Seconds())))

	embedding, err := voice.CaptureEmbedding(ctx, s.recorder, s.encoder, s.cfg.CaptureDuration, s.cfg.SampleRate)
	if err != nil {
		s.log.Warn(ctx, "voice enrollment capture failed", "identity", name, "error", err)
		s.speaker.Speak("Error recording voice sample")
		return err
	}
	if len(embedding) == 0 {
		s.speaker.Speak("Error recording voice sample")
		return fmt.Errorf("%w: encoder returned empty embedding", common.ErrCaptureFailed)
	}

	identity := &identities.Identity{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      identities.KindVoice,
		Embedding: embedding,
		CreatedAt: s.clock.Now(),
	}
	if err := s.create(ctx, identity); err != nil {
		return err
	}

	s.log.Info(ctx, "voice identity enrolled", "identity", name)
	s.speaker.Speak(fmt.Sprintf("User %s registered successfully", name))
	return nil
}

// EnrollPassword enrolls name with a password credential. The password is
// hashed with argon2id under a fresh random salt before storage; the
// plaintext is never persisted. An empty password fails with
// common.ErrNoCredentialProvided.
func (s *Service) EnrollPassword(ctx context.Context, name string, password []byte) error {
	if name == "" || len(password) == 0 {
		return common.ErrNoCredentialProvided
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	identity := &identities.Identity{
		ID:           uuid.NewString(),
		Name:         name,
		Kind:         identities.KindPassword,
		PasswordHash: cryptox.HashPassword(password, salt),
		PasswordSalt: salt,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.create(ctx, identity); err != nil {
		return err
	}

	s.log.Info(ctx, "password identity enrolled", "identity", name)
	s.speaker.Speak(fmt.Sprintf("User %s registered successfully", name))
	return nil
}

func (s *Service) create(ctx context.Context, identity *identities.Identity) error {
	err := s.ids.Create(ctx, identity)
	if errors.Is(err, common.ErrAlreadyExists) {
		s.speaker.Speak("User already exists")
		return common.ErrAlreadyExists
	}
	if err != nil {
		s.log.Error(ctx, "enrollment persistence failed", "identity", identity.Name, "error", err)
		s.speaker.Speak("Registration failed")
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

// Authenticate runs one authentication attempt. When both a name and a
// password are supplied, the attempt is checked against that identity's
// password credential; otherwise a voice sample is captured and matched
// against every enrolled voice identity. On success the identity becomes
// the current one, last_login is stamped, and a new session is created
// (its id is available via CurrentSessionID).
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		name string
		err  error
	)
	if creds.Name != "" && len(creds.Password) > 0 {
		name, err = s.authenticatePassword(ctx, creds.Name, creds.Password)
	} else {
		name, err = s.authenticateVoice(ctx)
	}
	if err != nil {
		s.speaker.Speak("Authentication failed")
		return "", err
	}

	sessionID, err := s.finishLogin(ctx, name)
	if err != nil {
		s.speaker.Speak("Authentication failed")
		return "", err
	}

	s.cacheMu.Lock()
	s.currentName = name
	s.currentSession = sessionID
	s.cacheMu.Unlock()

	s.log.Info(ctx, "authenticated", "identity", name)
	s.speaker.Speak(fmt.Sprintf("Welcome %s", name))
	return name, nil
}

func (s *Service) authenticatePassword(ctx context.Context, name string, password []byte) (string, error) {
	identity, err := s.ids.GetByName(ctx, name)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.ErrUnknownIdentity
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	if identity.Kind != identities.KindPassword {
		return "", common.ErrWrongAuthKind
	}
	if !cryptox.VerifyPassword(password, identity.PasswordSalt, identity.PasswordHash) {
		s.log.Warn(ctx, "password mismatch", "identity", name)
		return "", common.ErrInvalidCredentials
	}
	return name, nil
}

func (s *Service) authenticateVoice(ctx context.Context) (string, error) {
	records, err := s.ids.AllVoice(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	if len(records) == 0 {
		return "", common.ErrNoVoiceRecords
	}

	s.speaker.Speak(fmt.Sprintf("Please speak clearly for %d seconds", int(s.cfg.CaptureDuration.Seconds())))

	embedding, err := voice.CaptureEmbedding(ctx, s.recorder, s.encoder, s.cfg.CaptureDuration, s.cfg.SampleRate)
	if err != nil {
		s.log.Warn(ctx, "authentication capture failed", "error", err)
		return "", err
	}

	name, ok := Match(embedding, records, s.cfg.MatchThreshold)
	if !ok {
		s.log.Warn(ctx, "voice sample rejected", "threshold", s.cfg.MatchThreshold)
		return "", common.ErrNoMatch
	}
	return name, nil
}

// finishLogin stamps last_login and creates the session. A failed
// last_login stamp is logged and tolerated; a failed session create fails
// the attempt, since there would be no token to hand out.
func (s *Service) finishLogin(ctx context.Context, name string) (string, error) {
	now := s.clock.Now()

	if err := s.ids.UpdateLastLogin(ctx, name, now); err != nil {
		s.log.Error(ctx, "failed to stamp last login", "identity", name, "error", err)
	}

	sessionID, err := s.sessions.Create(ctx, name, now, s.cfg.SessionTimeout)
	if err != nil {
		s.log.Error(ctx, "failed to create session", "identity", name, "error", err)
		return "", err
	}
	return sessionID, nil
}

// Logout ends the current session: the cache is cleared and the underlying
// session record is revoked, so a captured session id is useless after
// logout rather than valid until natural expiry. Logging out while
// anonymous is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cacheMu.Lock()
	name, sessionID := s.currentName, s.currentSession
	s.currentName, s.currentSession = "", ""
	s.cacheMu.Unlock()

	if name == "" {
		return nil
	}

	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.log.Error(ctx, "failed to revoke session on logout", "identity", name, "error", err)
		return err
	}

	s.log.Info(ctx, "logged out", "identity", name)
	s.speaker.Speak("Logged out")
	return nil
}

// IsAuthenticated reports whether a current identity is set.
func (s *Service) IsAuthenticated() bool {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.currentName != ""
}

// CurrentIdentity returns the current identity name, or "" when anonymous.
func (s *Service) CurrentIdentity() string {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.currentName
}

// CurrentSessionID returns the session id issued by the last successful
// Authenticate, or "" when anonymous.
func (s *Service) CurrentSessionID() string {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.currentSession
}

// ValidateSession checks a session id against the store at the current
// time and returns the bound identity if it is live.
func (s *Service) ValidateSession(ctx context.Context, sessionID string) (string, bool) {
	return s.sessions.Validate(ctx, sessionID, s.clock.Now())
}

// CleanupExpiredSessions sweeps the session store, removing expired and
// unreadable records. Intended to be driven by a periodic timer.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	return s.sessions.CleanupExpired(ctx, s.clock.Now())
}

// ListIdentities returns the names of all enrolled identities.
func (s *Service) ListIdentities(ctx context.Context) ([]string, error) {
	return s.ids.ListNames(ctx)
}

// DeleteIdentity removes an enrolled identity and reports whether a record
// was removed. If the deleted identity is the current one, the current
// session is revoked as well.
func (s *Service) DeleteIdentity(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.ids.Delete(ctx, name)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	s.cacheMu.Lock()
	current, sessionID := s.currentName, s.currentSession
	if removed && current == name {
		s.currentName, s.currentSession = "", ""
	}
	s.cacheMu.Unlock()

	if removed && current == name {
		if err := s.sessions.Revoke(ctx, sessionID); err != nil {
			s.log.Error(ctx, "failed to revoke session of deleted identity", "identity", name, "error", err)
		}
	}

	if removed {
		s.log.Info(ctx, "identity deleted", "identity", name)
	}
	return removed, nil
}
