// Package common defines shared constants and sentinel errors used across
// the EchoOS authentication subsystem. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Enrollment errors.
	ErrAlreadyExists        = errors.New("identity already exists")
	ErrNoCredentialProvided = errors.New("no credential provided")

	// Authentication errors.
	ErrUnknownIdentity    = errors.New("unknown identity")
	ErrWrongAuthKind      = errors.New("wrong authentication kind")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoMatch            = errors.New("no matching voice identity")
	ErrNoVoiceRecords     = errors.New("no voice identities enrolled")

	// Capture / device errors.
	ErrCaptureFailed = errors.New("voice capture failed")

	// Storage errors. ErrKeyStorage is fatal at startup; ErrPersistence is
	// logged and surfaced but never crashes the caller.
	ErrKeyStorage  = errors.New("key storage error")
	ErrPersistence = errors.New("persistence error")
)
