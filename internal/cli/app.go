// Package cli implements the interactive shell of the assistant: identity
// enrollment, login/logout, and the small management surface. It is the
// command layer's gatekeeper: protected commands are refused until the
// authentication service reports an authenticated session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mamishal/echoos/internal/auth"
	"github.com/mamishal/echoos/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing: they point at the interactive input helpers and can be swapped.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// App binds the REPL commands to the authentication service.
type App struct {
	svc    *auth.Service
	reader *bufio.Reader
}

func NewApp(svc *auth.Service) *App {
	return &App{svc: svc, reader: bufio.NewReader(os.Stdin)}
}

// Run starts the interactive shell and blocks until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool { return a.svc.IsAuthenticated() }

func (a *App) status() string {
	if name := a.svc.CurrentIdentity(); name != "" {
		return name
	}
	return "anonymous"
}

// Enroll registers a new identity. The user picks the credential kind at
// enrollment time; it is fixed for the identity's lifetime.
func (a *App) Enroll(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}

	kind, err := getSimpleText(a.reader, "Authentication method: voice or password", os.Stdout)
	if err != nil {
		return err
	}

	switch kind {
	case "voice":
		err = a.svc.EnrollVoice(ctx, name)
	case "password":
		var password []byte
		password, err = getPassword(os.Stdout)
		if err != nil {
			return err
		}
		err = a.svc.EnrollPassword(ctx, name, password)
		common.WipeByteArray(password)
	default:
		printlnFn("Unknown method:", kind)
		return nil
	}

	if err != nil {
		printlnFn("Enrollment failed:", enrollmentMessage(err))
		return err
	}
	printlnFn("Success!")
	return nil
}

// Login authenticates the user. An empty name selects voice
// authentication; a name selects password authentication against that
// identity.
func (a *App) Login(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter user name (leave empty for voice login)", os.Stdout)
	if err != nil {
		return err
	}

	creds := auth.Credentials{Name: name}
	if name != "" {
		creds.Password, err = getPassword(os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(creds.Password)
	}

	identity, err := a.svc.Authenticate(ctx, creds)
	if err != nil {
		printlnFn("Login failed:", loginMessage(err))
		return err
	}
	printlnFn(fmt.Sprintf("Logged in as %s", identity))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Logout(ctx); err != nil {
		printlnFn("Logout failed")
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	printlnFn(a.svc.CurrentIdentity())
	return nil
}

func (a *App) Users(ctx context.Context) error {
	names, err := a.svc.ListIdentities(ctx)
	if err != nil {
		printlnFn("Failed to list users")
		return err
	}
	if len(names) == 0 {
		printlnFn("No users enrolled")
		return nil
	}
	for _, name := range names {
		printlnFn(" -", name)
	}
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter user name to delete", os.Stdout)
	if err != nil {
		return err
	}

	removed, err := a.svc.DeleteIdentity(ctx, name)
	if err != nil {
		printlnFn("Delete failed")
		return err
	}
	if !removed {
		printlnFn("No such user:", name)
		return nil
	}
	printlnFn("Deleted", name)
	return nil
}

func (a *App) Cleanup(ctx context.Context) error {
	removed, err := a.svc.CleanupExpiredSessions(ctx)
	if err != nil {
		printlnFn("Cleanup failed")
		return err
	}
	printlnFn(fmt.Sprintf("Removed %d expired sessions", removed))
	return nil
}

// enrollmentMessage maps enrollment errors to user-facing text. Every
// failure gets a message distinct from success; silence is never an
// acceptable outcome of a security decision.
func enrollmentMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return "user already exists"
	case errors.Is(err, common.ErrCaptureFailed):
		return "could not record a usable voice sample"
	case errors.Is(err, common.ErrNoCredentialProvided):
		return "no credential provided"
	default:
		return "internal error"
	}
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrUnknownIdentity):
		return "unknown user"
	case errors.Is(err, common.ErrWrongAuthKind):
		return "this user does not use password login"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, common.ErrNoVoiceRecords):
		return "no voice users enrolled"
	case errors.Is(err, common.ErrNoMatch):
		return "voice not recognized"
	case errors.Is(err, common.ErrCaptureFailed):
		return "could not record a usable voice sample"
	default:
		return "internal error"
	}
}
