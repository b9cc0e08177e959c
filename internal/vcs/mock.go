package vcs

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a fake Client for testing.
type MockClient struct {
	mu sync.Mutex

	// Canned answers.
	CommonDirValue string
	HeadValue      string
	PrefixValue    string
	Dirty          bool

	// Branches maps branch name to its current tip. RevParse consults this;
	// Commit advances the branch set by CurrentBranch.
	Branches map[string]string

	// CurrentBranch is the branch advanced by Commit.
	CurrentBranch string

	// Errors allows injecting errors per method name.
	Errors map[string]error

	// Recorded calls.
	WorktreesAdded   []string
	WorktreesRemoved []string
	BranchesDeleted  []string
	Commits          []string
	StagedAll        int
}

// NewMockClient creates a MockClient with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		CommonDirValue: "/repo/.git",
		HeadValue:      "abc123",
		Branches:       make(map[string]string),
		Errors:         make(map[string]error),
	}
}

func (m *MockClient) err(method string) error {
	return m.Errors[method]
}

func (m *MockClient) CommonDir(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("CommonDir"); err != nil {
		return "", err
	}
	return m.CommonDirValue, nil
}

func (m *MockClient) Head(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("Head"); err != nil {
		return "", err
	}
	return m.HeadValue, nil
}

func (m *MockClient) Prefix(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("Prefix"); err != nil {
		return "", err
	}
	return m.PrefixValue, nil
}

func (m *MockClient) WorktreeAdd(ctx context.Context, dir, path, branch, committish string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("WorktreeAdd"); err != nil {
		return err
	}
	if _, exists := m.Branches[branch]; exists {
		return fmt.Errorf("git worktree add failed: branch %q already exists", branch)
	}
	m.Branches[branch] = committish
	m.CurrentBranch = branch
	m.WorktreesAdded = append(m.WorktreesAdded, path)
	return nil
}

func (m *MockClient) WorktreeRemove(ctx context.Context, dir, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("WorktreeRemove"); err != nil {
		return err
	}
	m.WorktreesRemoved = append(m.WorktreesRemoved, path)
	return nil
}

func (m *MockClient) DeleteBranch(ctx context.Context, dir, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("DeleteBranch"); err != nil {
		return err
	}
	delete(m.Branches, branch)
	m.BranchesDeleted = append(m.BranchesDeleted, branch)
	return nil
}

func (m *MockClient) IsDirty(ctx context.Context, dir string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("IsDirty"); err != nil {
		return false, err
	}
	return m.Dirty, nil
}

func (m *MockClient) AddAll(ctx context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("AddAll"); err != nil {
		return err
	}
	m.StagedAll++
	return nil
}

func (m *MockClient) Commit(ctx context.Context, dir, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("Commit"); err != nil {
		return err
	}
	m.Commits = append(m.Commits, message)
	if m.CurrentBranch != "" {
		m.Branches[m.CurrentBranch] = fmt.Sprintf("commit-%d", len(m.Commits))
	}
	return nil
}

func (m *MockClient) RevParse(ctx context.Context, dir, ref string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("RevParse"); err != nil {
		return "", err
	}
	if tip, ok := m.Branches[ref]; ok {
		return tip, nil
	}
	return "", fmt.Errorf("unknown ref %q", ref)
}

var _ Client = (*MockClient)(nil)
