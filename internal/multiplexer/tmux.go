package multiplexer

import (
	"context"
	"fmt"
	"strings"

	"github.com/denhq/den/internal/system"
)

// Tmux implements Multiplexer by invoking the tmux binary.
type Tmux struct {
	// Executor runs tmux commands; defaults to the real OS executor.
	Executor system.CommandExecutor
}

// NewTmux creates a Tmux using the default executor.
func NewTmux() *Tmux {
	return &Tmux{Executor: system.DefaultExecutor()}
}

func (t *Tmux) run(ctx context.Context, args ...string) error {
	out, err := t.Executor.Execute(ctx, "tmux", args...)
	if err != nil {
		return fmt.Errorf("tmux %s failed: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (t *Tmux) NewSession(ctx context.Context, session string) error {
	return t.run(ctx, "new-session", "-d", "-s", session)
}

func (t *Tmux) NewSessionCommand(ctx context.Context, session, command string) error {
	return t.Executor.ExecuteInteractive(ctx, "tmux", "new-session", "-s", session, command)
}

func (t *Tmux) NewWindow(ctx context.Context, session, name, command string) error {
	return t.run(ctx, "new-window", "-t", session, "-n", name, command)
}

func (t *Tmux) SendKeys(ctx context.Context, target, keys string) error {
	return t.run(ctx, "send-keys", "-t", target, keys, "Enter")
}

func (t *Tmux) SelectWindow(ctx context.Context, target string) error {
	return t.run(ctx, "select-window", "-t", target)
}

func (t *Tmux) Attach(ctx context.Context, session string) error {
	return t.Executor.ExecuteInteractive(ctx, "tmux", "attach-session", "-t", session)
}

var _ Multiplexer = (*Tmux)(nil)
