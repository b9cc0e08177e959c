// Package multiplexer provides an abstraction over the terminal multiplexer
// used inside den sandboxes.
package multiplexer

import "context"

// SessionName is the tmux session name used in all sandboxes.
const SessionName = "s"

// PrimaryTarget is the window running the agent command.
const PrimaryTarget = SessionName + ":0"

// Multiplexer is the interface that multiplexer backends implement.
type Multiplexer interface {
	// NewSession creates a detached session.
	NewSession(ctx context.Context, session string) error

	// NewSessionCommand creates a foreground session running command,
	// attached to the terminal. It blocks until the session ends.
	NewSessionCommand(ctx context.Context, session, command string) error

	// NewWindow creates a named window in session running command.
	NewWindow(ctx context.Context, session, name, command string) error

	// SendKeys types keys (followed by Enter) into target.
	SendKeys(ctx context.Context, target, keys string) error

	// SelectWindow makes target the active window.
	SelectWindow(ctx context.Context, target string) error

	// Attach attaches the terminal to session. It blocks until detach or
	// session end.
	Attach(ctx context.Context, session string) error
}
