package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs. The real
// App type satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Enroll(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Users(ctx context.Context) error
	Delete(ctx context.Context) error
	Cleanup(ctx context.Context) error
}

// runREPL drives the interactive shell: one line per command, first token
// dispatched to a. The loop exits on EOF, on "exit"/"quit", or when ctx is
// cancelled. Reading and prompting share one reader so interactive prompts
// inside handlers do not lose buffered input.
//
// The assistant's command layer refuses to act for anonymous callers, so
// everything except enroll, login, and help requires an authenticated
// session. Errors from handlers are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		printlnFn(fmt.Sprintf("echoos> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, users, delete, cleanup, logout, exit")
			} else {
				printlnFn("Available commands: enroll, login, exit")
			}

		case "enroll":
			_ = a.Enroll(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami", "users", "delete", "cleanup":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			switch cmd {
			case "whoami":
				_ = a.WhoAmI(ctx)
			case "users":
				_ = a.Users(ctx)
			case "delete":
				_ = a.Delete(ctx)
			case "cleanup":
				_ = a.Cleanup(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
