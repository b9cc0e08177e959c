package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/denhq/den/internal/system"
)

// GitClient implements Client by invoking the git binary.
type GitClient struct {
	// Executor runs git commands; defaults to the real OS executor.
	Executor system.CommandExecutor
}

// NewGitClient creates a GitClient using the default executor.
func NewGitClient() *GitClient {
	return &GitClient{Executor: system.DefaultExecutor()}
}

func (g *GitClient) output(ctx context.Context, args ...string) (string, error) {
	out, err := g.Executor.Output(ctx, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *GitClient) execute(ctx context.Context, args ...string) error {
	out, err := g.Executor.Execute(ctx, "git", args...)
	if err != nil {
		return fmt.Errorf("git %s failed: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (g *GitClient) CommonDir(ctx context.Context) (string, error) {
	return g.output(ctx, "rev-parse", "--path-format=absolute", "--git-common-dir")
}

func (g *GitClient) Head(ctx context.Context) (string, error) {
	return g.output(ctx, "rev-parse", "HEAD")
}

func (g *GitClient) Prefix(ctx context.Context) (string, error) {
	return g.output(ctx, "rev-parse", "--show-prefix")
}

func (g *GitClient) WorktreeAdd(ctx context.Context, dir, path, branch, committish string) error {
	return g.execute(ctx, "-C", dir, "worktree", "add", path, "-b", branch, committish)
}

func (g *GitClient) WorktreeRemove(ctx context.Context, dir, path string) error {
	return g.execute(ctx, "-C", dir, "worktree", "remove", "--force", path)
}

func (g *GitClient) DeleteBranch(ctx context.Context, dir, branch string) error {
	return g.execute(ctx, "-C", dir, "branch", "-D", branch)
}

func (g *GitClient) IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := g.Executor.Output(ctx, "git", "-C", dir, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

func (g *GitClient) AddAll(ctx context.Context, dir string) error {
	return g.execute(ctx, "-C", dir, "add", "-A")
}

func (g *GitClient) Commit(ctx context.Context, dir, message string) error {
	return g.execute(ctx, "-C", dir, "commit", "-m", message)
}

func (g *GitClient) RevParse(ctx context.Context, dir, ref string) (string, error) {
	return g.output(ctx, "-C", dir, "rev-parse", ref)
}

var _ Client = (*GitClient)(nil)
