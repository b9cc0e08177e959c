package multiplexer

import (
	"context"
	"fmt"
	"sync"
)

// MockMultiplexer is a fake Multiplexer for testing.
type MockMultiplexer struct {
	mu sync.Mutex

	// Errors allows injecting errors per method name.
	Errors map[string]error

	// Recorded calls.
	Sessions        []string
	ForegroundRuns  []string // "session command"
	Windows         []string // "session name command"
	Keys            []string // "target keys"
	SelectedWindows []string
	Attached        []string
}

// NewMockMultiplexer creates a new mock.
func NewMockMultiplexer() *MockMultiplexer {
	return &MockMultiplexer{Errors: make(map[string]error)}
}

func (m *MockMultiplexer) NewSession(ctx context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["NewSession"]; err != nil {
		return err
	}
	m.Sessions = append(m.Sessions, session)
	return nil
}

func (m *MockMultiplexer) NewSessionCommand(ctx context.Context, session, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["NewSessionCommand"]; err != nil {
		return err
	}
	m.ForegroundRuns = append(m.ForegroundRuns, fmt.Sprintf("%s %s", session, command))
	return nil
}

func (m *MockMultiplexer) NewWindow(ctx context.Context, session, name, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["NewWindow"]; err != nil {
		return err
	}
	m.Windows = append(m.Windows, fmt.Sprintf("%s %s %s", session, name, command))
	return nil
}

func (m *MockMultiplexer) SendKeys(ctx context.Context, target, keys string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["SendKeys"]; err != nil {
		return err
	}
	m.Keys = append(m.Keys, fmt.Sprintf("%s %s", target, keys))
	return nil
}

func (m *MockMultiplexer) SelectWindow(ctx context.Context, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["SelectWindow"]; err != nil {
		return err
	}
	m.SelectedWindows = append(m.SelectedWindows, target)
	return nil
}

func (m *MockMultiplexer) Attach(ctx context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors["Attach"]; err != nil {
		return err
	}
	m.Attached = append(m.Attached, session)
	return nil
}

var _ Multiplexer = (*MockMultiplexer)(nil)
