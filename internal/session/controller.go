// Package session implements the host side of a den session: git context
// resolution, launch spec construction, and exit waiting.
package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/denhq/den/internal/config"
	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/runtime"
	"github.com/denhq/den/internal/vcs"
)

// ContainerWorkDir is the home of the agent user inside the sandbox.
const ContainerWorkDir = "/home/agent"

// SelfMountPath is where the den binary is mounted inside the sandbox so the
// internal mode can be re-invoked there.
const SelfMountPath = "/mnt/den"

// TerminalPort is the container port the web terminal pane listens on.
const TerminalPort = 8001

// stopTimeout bounds the best-effort stop issued on an interrupted wait.
const stopTimeout = 30 * time.Second

// GitContext holds the git coordinates a session is created from.
type GitContext struct {
	// CommonDir is the repository's common directory, without a trailing
	// /.git component.
	CommonDir string

	// Committish is the commit the session branch starts from.
	Committish string

	// Prefix is the subdirectory the session was started in, "." at the
	// repository root.
	Prefix string
}

// Controller drives a session from the host.
type Controller struct {
	Runtime runtime.Runtime
	Git     vcs.Client
	Config  *config.Config

	// Getenv resolves pass-through environment values at launch time.
	// Defaults to os.Getenv.
	Getenv func(string) string

	// SelfPath resolves the running den binary. Defaults to os.Executable.
	SelfPath func() (string, error)
}

// NewController creates a Controller with OS defaults.
func NewController(rt runtime.Runtime, git vcs.Client, cfg *config.Config) *Controller {
	return &Controller{
		Runtime:  rt,
		Git:      git,
		Config:   cfg,
		Getenv:   os.Getenv,
		SelfPath: os.Executable,
	}
}

// ResolveGitContext resolves the repository coordinates of the current
// directory. It fails with GitContextError outside a working tree.
func (c *Controller) ResolveGitContext(ctx context.Context) (GitContext, error) {
	commonDir, err := c.Git.CommonDir(ctx)
	if err != nil {
		return GitContext{}, errors.GitContextError("not inside a git working tree", err)
	}

	// A common dir ending in .git makes freshly added worktrees report a
	// dirty status; use the repository directory above it.
	if strings.HasSuffix(commonDir, ".git") {
		commonDir = filepath.Dir(commonDir)
	}

	committish, err := c.Git.Head(ctx)
	if err != nil {
		return GitContext{}, errors.GitContextError("failed to resolve HEAD", err)
	}

	prefix, err := c.Git.Prefix(ctx)
	if err != nil {
		return GitContext{}, errors.GitContextError("failed to resolve path prefix", err)
	}
	if prefix == "" {
		prefix = "."
	}

	return GitContext{CommonDir: commonDir, Committish: committish, Prefix: prefix}, nil
}

// BuildLaunchSpec assembles the container launch for a session. Environment
// pass-through values are captured here, at launch time.
func (c *Controller) BuildLaunchSpec(slug string, gitCtx GitContext, agentKey, suffix string) (runtime.LaunchSpec, error) {
	agent, ok := c.Config.Agent(agentKey)
	if !ok {
		return runtime.LaunchSpec{}, errors.UnknownAgent(agentKey)
	}

	selfPath, err := c.SelfPath()
	if err != nil {
		return runtime.LaunchSpec{}, errors.ContainerFailed("locating den binary", err)
	}

	cfgJSON, err := c.Config.ToJSON()
	if err != nil {
		return runtime.LaunchSpec{}, errors.ConfigError("failed to serialize config", err)
	}

	env := make([]string, 0, len(c.Config.EnvVars)+2)
	for key, value := range c.Config.EnvVars {
		if value == nil {
			env = append(env, key+"="+c.Getenv(key))
		} else {
			env = append(env, key+"="+*value)
		}
	}
	env = append(env,
		"COMMITTISH="+gitCtx.Committish,
		config.EnvConfigJSON+"="+cfgJSON,
	)

	home := c.Getenv("HOME")
	mounts := make([]string, 0, len(c.Config.Mounts)+2)
	for _, m := range c.Config.Mounts {
		host := strings.ReplaceAll(m.Host, "{HOME}", home)
		host = strings.ReplaceAll(host, "{git_dir}", gitCtx.CommonDir)
		mounts = append(mounts, host+":"+m.Container)
	}
	mounts = append(mounts,
		gitCtx.CommonDir+":"+gitCtx.CommonDir,
		selfPath+":"+SelfMountPath,
	)

	command := []string{
		SelfMountPath, "inside",
		"--slug", slug,
		"--git-dir", gitCtx.CommonDir,
		"--committish", gitCtx.Committish,
		"--prefix", gitCtx.Prefix,
		"--agent-cmd", agent.Command,
		"--agent", agentKey,
	}
	if suffix != "" {
		command = append(command, "--suffix", suffix)
	}

	return runtime.LaunchSpec{
		Name:    slug,
		Image:   c.Config.Image,
		Options: c.Config.DockerOptions,
		Env:     env,
		Mounts:  mounts,
		WorkDir: ContainerWorkDir,
		Command: command,
	}, nil
}

// Launch starts the session container detached and returns its id.
func (c *Controller) Launch(ctx context.Context, spec runtime.LaunchSpec) (string, error) {
	id, err := c.Runtime.Launch(ctx, spec)
	if err != nil {
		return "", errors.ContainerFailed("launch", err)
	}
	return id, nil
}

// RunInteractive starts the session container in the foreground and blocks
// until it exits.
func (c *Controller) RunInteractive(ctx context.Context, spec runtime.LaunchSpec) error {
	if err := c.Runtime.RunInteractive(ctx, spec); err != nil {
		return errors.ContainerFailed("launch", err)
	}
	return nil
}

// AwaitExit blocks until the session container exits. When ctx is cancelled
// it issues a best-effort stop request and returns immediately, without
// waiting for the sandbox to shut down; the returned error is the context's.
func (c *Controller) AwaitExit(ctx context.Context, slug string) error {
	done := make(chan error, 1)
	go func() {
		done <- c.Runtime.Wait(ctx, slug)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		go func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if err := c.Runtime.Stop(stopCtx, slug); err != nil {
				logging.Warn("stop request failed", "slug", slug, "error", err)
			}
		}()
		return ctx.Err()
	}
}
