// Package vcs abstracts the version control operations den needs for
// worktree-isolated sessions.
package vcs

import "context"

// Client is the narrow version-control interface used by den. One real
// implementation invokes the git binary; tests inject a fake.
type Client interface {
	// CommonDir returns the absolute git common directory for the
	// repository containing the current working directory.
	CommonDir(ctx context.Context) (string, error)

	// Head resolves the current HEAD commit hash.
	Head(ctx context.Context) (string, error)

	// Prefix returns the path of the current directory relative to the
	// repository root. Empty at the root.
	Prefix(ctx context.Context) (string, error)

	// WorktreeAdd creates a worktree at path on a new branch rooted at
	// committish, run from dir.
	WorktreeAdd(ctx context.Context, dir, path, branch, committish string) error

	// WorktreeRemove force-removes the worktree at path.
	WorktreeRemove(ctx context.Context, dir, path string) error

	// DeleteBranch force-deletes a branch.
	DeleteBranch(ctx context.Context, dir, branch string) error

	// IsDirty reports whether dir has modified or untracked content.
	IsDirty(ctx context.Context, dir string) (bool, error)

	// AddAll stages everything in dir.
	AddAll(ctx context.Context, dir string) error

	// Commit creates a commit in dir with the given message.
	Commit(ctx context.Context, dir, message string) error

	// RevParse resolves a ref to a commit hash, run from dir.
	RevParse(ctx context.Context, dir, ref string) (string, error)
}
