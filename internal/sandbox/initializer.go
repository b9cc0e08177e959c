// Package sandbox runs the in-container side of a session: worktree setup,
// tmux orchestration for the agent and auxiliary panes, and reconciliation of
// the session branch on exit.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"

	"github.com/denhq/den/internal/config"
	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/multiplexer"
	"github.com/denhq/den/internal/system"
	"github.com/denhq/den/internal/vcs"
)

const (
	// WorkRoot is the sandbox user's home directory.
	WorkRoot = "/home/agent"

	// WorkDir is the stable worktree location agents run in.
	WorkDir = "/home/agent/work"

	claudeStateLink   = "/home/agent/.claude.json"
	claudeStateTarget = "/home/agent/.claude/claude.json"
)

// Phase tracks initializer progress through the sandbox lifecycle.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseWorktreeReady
	PhasePanesReady
	PhaseRunning
	PhaseReconciling
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseWorktreeReady:
		return "worktree-ready"
	case PhasePanesReady:
		return "panes-ready"
	case PhaseRunning:
		return "running"
	case PhaseReconciling:
		return "reconciling"
	case PhaseTerminal:
		return "terminal"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Session describes the sandbox session being initialized, as passed in by
// the host through the inside-mode flags.
type Session struct {
	Slug       string
	GitDir     string
	Committish string
	Prefix     string
	AgentKey   string
	AgentCmd   string
	Suffix     string
}

// Initializer sets up and tears down a sandbox session.
type Initializer struct {
	Config *config.Config
	FS     system.FileSystem
	Exec   system.CommandExecutor
	Git    vcs.Client
	Mux    multiplexer.Multiplexer

	// StagingSuffix generates the unique worktree staging suffix.
	// Defaults to a random UUID.
	StagingSuffix func() string

	// Chdir changes the process working directory. Defaults to os.Chdir.
	Chdir func(string) error

	phase Phase

	// stagingPath is the registered worktree path; the compat symlink keeps
	// it valid after the rename to WorkDir.
	stagingPath string
}

// NewInitializer creates an Initializer with OS defaults.
func NewInitializer(cfg *config.Config, git vcs.Client, mux multiplexer.Multiplexer) *Initializer {
	return &Initializer{
		Config:        cfg,
		FS:            system.DefaultFS(),
		Exec:          system.DefaultExecutor(),
		Git:           git,
		Mux:           mux,
		StagingSuffix: uuid.NewString,
		Chdir:         os.Chdir,
	}
}

// Phase returns the current lifecycle phase.
func (i *Initializer) Phase() Phase {
	return i.phase
}

func (i *Initializer) transition(p Phase) {
	logging.Debug("sandbox phase", "from", i.phase.String(), "to", p.String())
	i.phase = p
}

// Run drives the whole sandbox lifecycle: worktree setup, agent run
// (blocking until the tmux session ends), then reconciliation.
func (i *Initializer) Run(ctx context.Context, sess Session) error {
	if err := i.setupWorktree(ctx, sess); err != nil {
		return err
	}
	i.transition(PhaseWorktreeReady)

	if err := i.runAgent(ctx, sess); err != nil {
		return err
	}

	i.transition(PhaseReconciling)
	i.reconcile(ctx, sess)
	i.transition(PhaseTerminal)
	return nil
}

func (i *Initializer) setupWorktree(ctx context.Context, sess Session) error {
	// The bind-mounted home is owned by the host user.
	if u, err := user.Current(); err == nil {
		if out, err := i.Exec.Execute(ctx, "sudo", "chown", "-R", u.Username, WorkRoot); err != nil {
			logging.Warn("ownership fix failed", "output", strings.TrimSpace(string(out)), "error", err)
		}
	}

	i.stagingPath = WorkDir + "-" + i.StagingSuffix()
	if err := i.FS.Mkdir(i.stagingPath, 0o755); err != nil {
		return errors.ContainerFailed("staging directory", err)
	}

	gitDir := filepath.Join(sess.GitDir, ".git")
	if err := i.Git.WorktreeAdd(ctx, gitDir, i.stagingPath, sess.Slug, sess.Committish); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return errors.WorktreeConflict(sess.Slug, err)
		}
		return errors.ContainerFailed("worktree add", err)
	}

	// Stable path for agents, symlink back so git's registered worktree
	// path keeps resolving.
	if err := i.FS.Rename(i.stagingPath, WorkDir); err != nil {
		return errors.ContainerFailed("worktree rename", err)
	}
	if err := i.FS.Symlink(WorkDir, i.stagingPath); err != nil {
		return errors.ContainerFailed("worktree symlink", err)
	}

	startDir, err := securejoin.SecureJoin(WorkDir, sess.Prefix)
	if err != nil {
		return errors.ContainerFailed("resolving start directory", err)
	}
	if err := i.Chdir(startDir); err != nil {
		return errors.ContainerFailed("entering start directory", err)
	}

	// claude stores per-user state in a single file; mounts are
	// directory-only, so link it into the mounted config dir.
	if !i.FS.Exists(claudeStateLink) {
		if err := i.FS.Symlink(claudeStateTarget, claudeStateLink); err != nil {
			logging.Warn("claude state symlink failed", "error", err)
		}
	}

	return nil
}

// runAgent starts the tmux session and blocks until it exits.
func (i *Initializer) runAgent(ctx context.Context, sess Session) error {
	panes := i.Config.AdditionalPanes
	if len(panes) == 0 {
		i.transition(PhasePanesReady)
		i.transition(PhaseRunning)
		// A non-zero exit here is still a session end; reconciliation
		// must run either way or dirty work dies with the container.
		if err := i.Mux.NewSessionCommand(ctx, multiplexer.SessionName, sess.AgentCmd); err != nil {
			logging.Warn("agent session ended with error", "error", err)
		}
		return nil
	}

	if err := i.Mux.NewSession(ctx, multiplexer.SessionName); err != nil {
		return errors.ContainerFailed("tmux session", err)
	}
	for _, pane := range panes {
		if err := i.Mux.NewWindow(ctx, multiplexer.SessionName, pane.Name, pane.Render(sess.Slug, sess.Suffix)); err != nil {
			return errors.ContainerFailed("pane "+pane.Name, err)
		}
		logging.Debug("started pane", "name", pane.Name)
	}
	i.transition(PhasePanesReady)

	if err := i.Mux.SendKeys(ctx, multiplexer.PrimaryTarget, sess.AgentCmd); err != nil {
		return errors.ContainerFailed("starting agent", err)
	}
	if err := i.Mux.SelectWindow(ctx, multiplexer.PrimaryTarget); err != nil {
		return errors.ContainerFailed("selecting agent window", err)
	}
	i.transition(PhaseRunning)

	// Same as above: attach returning an error is a session end, not a
	// setup failure.
	if err := i.Mux.Attach(ctx, multiplexer.SessionName); err != nil {
		logging.Warn("session attach ended with error", "error", err)
	}
	return nil
}

// reconcile commits leftover work and retires the branch when nothing
// happened. Every step is best effort; an exiting sandbox never fails here.
func (i *Initializer) reconcile(ctx context.Context, sess Session) {
	dirty, err := i.Git.IsDirty(ctx, WorkDir)
	if err != nil {
		logging.Warn("dirty check failed, keeping worktree", "error", err)
		return
	}
	if dirty {
		logging.UserInfo("Workspace is dirty, creating commit...")
		if err := i.Git.AddAll(ctx, WorkDir); err != nil {
			logging.Warn("staging changes failed", "error", err)
			return
		}
		msg := fmt.Sprintf("Auto-commit by den on exit\n\nAgent: %s\nBranch: %s", sess.AgentKey, sess.Slug)
		if err := i.Git.Commit(ctx, WorkDir, msg); err != nil {
			logging.Warn("auto-commit failed", "error", err)
			return
		}
		logging.UserSuccess("Created commit for dirty workspace")
	}

	tip, err := i.Git.RevParse(ctx, sess.GitDir, sess.Slug)
	if err != nil {
		logging.Warn("branch lookup failed, keeping worktree", "slug", sess.Slug, "error", err)
		return
	}
	if tip != sess.Committish {
		logging.UserInfo("Branch %s has moved, keeping worktree and branch", sess.Slug)
		return
	}

	logging.UserInfo("Branch %s unchanged, cleaning up...", sess.Slug)
	if err := i.Git.WorktreeRemove(ctx, sess.GitDir, i.stagingPath); err != nil {
		logging.Warn("worktree remove failed", "error", err)
	}
	if err := i.Git.DeleteBranch(ctx, sess.GitDir, sess.Slug); err != nil {
		logging.Warn("branch delete failed", "error", err)
	}
}
