package vcs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/denhq/den/internal/system"
)

func TestGitClient_CommonDir(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("git rev-parse --path-format=absolute --git-common-dir", "/home/dev/proj/.git\n", nil)

	g := &GitClient{Executor: exec}
	got, err := g.CommonDir(context.Background())
	if err != nil {
		t.Fatalf("CommonDir() failed: %v", err)
	}
	if got != "/home/dev/proj/.git" {
		t.Errorf("CommonDir() = %q", got)
	}
}

func TestGitClient_PrefixEmptyAtRoot(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("git rev-parse --show-prefix", "\n", nil)

	g := &GitClient{Executor: exec}
	got, err := g.Prefix(context.Background())
	if err != nil {
		t.Fatalf("Prefix() failed: %v", err)
	}
	if got != "" {
		t.Errorf("Prefix() = %q, want empty", got)
	}
}

func TestGitClient_IsDirty(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"clean", "\n", false},
		{"modified", " M main.go\n", true},
		{"untracked", "?? scratch.txt\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := system.NewMockExecutor()
			exec.Respond("git -C /wt status --porcelain", tt.status, nil)

			g := &GitClient{Executor: exec}
			got, err := g.IsDirty(context.Background(), "/wt")
			if err != nil {
				t.Fatalf("IsDirty() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsDirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitClient_IsDirtyError(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("git -C /wt status", "", errors.New("not a git repository"))

	g := &GitClient{Executor: exec}
	if _, err := g.IsDirty(context.Background(), "/wt"); err == nil {
		t.Fatal("IsDirty() should propagate git failure")
	}
}

func TestGitClient_WorktreeAddArgs(t *testing.T) {
	exec := system.NewMockExecutor()

	g := &GitClient{Executor: exec}
	err := g.WorktreeAdd(context.Background(), "/repo/.git", "/work", "brave-otter", "abc123")
	if err != nil {
		t.Fatalf("WorktreeAdd() failed: %v", err)
	}

	calls := exec.CallsFor("git -C /repo/.git worktree add /work -b brave-otter abc123")
	if len(calls) != 1 {
		t.Errorf("unexpected git invocation: %v", exec.Calls)
	}
}

func TestGitClient_WorktreeAddFailureIncludesOutput(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("git -C /repo/.git worktree add", "fatal: a branch named 'brave-otter' already exists", errors.New("exit status 128"))

	g := &GitClient{Executor: exec}
	err := g.WorktreeAdd(context.Background(), "/repo/.git", "/work", "brave-otter", "abc123")
	if err == nil {
		t.Fatal("WorktreeAdd() should fail")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should carry git output, got %q", err.Error())
	}
}
