package runtime

import (
	"context"
	"fmt"
	"sync"
)

// MockRuntime is a mock implementation of Runtime for testing.
type MockRuntime struct {
	mu sync.Mutex

	// Containers is the list returned by List, in order.
	Containers []Container

	// ExecOutputs maps "id command..." to canned exec output.
	ExecOutputs map[string]string

	// ExecErrors maps "id command..." to injected exec errors.
	ExecErrors map[string]error

	// Ports maps container id to the mapped host port.
	Ports map[string]int

	// Errors allows injecting errors per method name.
	Errors map[string]error

	// Launched records every launched spec.
	Launched []LaunchSpec

	// Stopped records names passed to Stop.
	Stopped []string

	// CallLog records method names in call order.
	CallLog []string

	// waitCh, when set, makes Wait block until the channel closes or the
	// context is cancelled.
	waitCh chan struct{}
}

// NewMockRuntime creates a new mock runtime.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		ExecOutputs: make(map[string]string),
		ExecErrors:  make(map[string]error),
		Ports:       make(map[string]int),
		Errors:      make(map[string]error),
	}
}

func (m *MockRuntime) record(method string) {
	m.CallLog = append(m.CallLog, method)
}

// AddContainer registers a running container.
func (m *MockRuntime) AddContainer(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers = append(m.Containers, Container{ID: id, Name: name})
}

// RemoveContainer drops a container from the running list.
func (m *MockRuntime) RemoveContainer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Containers[:0]
	for _, c := range m.Containers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.Containers = kept
}

// SetError injects an error for a method name.
func (m *MockRuntime) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[method] = err
}

// SetExec sets the output for Exec calls matching "id command...".
func (m *MockRuntime) SetExec(id string, command []string, output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := execKey(id, command)
	m.ExecOutputs[key] = output
	if err != nil {
		m.ExecErrors[key] = err
	} else {
		delete(m.ExecErrors, key)
	}
}

// StoppedNames returns a copy of the names passed to Stop so far.
func (m *MockRuntime) StoppedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Stopped))
	copy(out, m.Stopped)
	return out
}

// BlockWait makes Wait block until ReleaseWait is called.
func (m *MockRuntime) BlockWait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitCh = make(chan struct{})
}

// ReleaseWait unblocks a pending Wait.
func (m *MockRuntime) ReleaseWait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waitCh != nil {
		close(m.waitCh)
		m.waitCh = nil
	}
}

func execKey(id string, command []string) string {
	key := id
	for _, c := range command {
		key += " " + c
	}
	return key
}

func (m *MockRuntime) Launch(ctx context.Context, spec LaunchSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Launch")
	if err := m.Errors["Launch"]; err != nil {
		return "", err
	}
	m.Launched = append(m.Launched, spec)
	id := fmt.Sprintf("mock-%s", spec.Name)
	m.Containers = append(m.Containers, Container{ID: id, Name: spec.Name})
	return id, nil
}

func (m *MockRuntime) RunInteractive(ctx context.Context, spec LaunchSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RunInteractive")
	if err := m.Errors["RunInteractive"]; err != nil {
		return err
	}
	m.Launched = append(m.Launched, spec)
	return nil
}

func (m *MockRuntime) Wait(ctx context.Context, name string) error {
	m.mu.Lock()
	m.record("Wait")
	err := m.Errors["Wait"]
	ch := m.waitCh
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *MockRuntime) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop")
	m.Stopped = append(m.Stopped, name)
	return m.Errors["Stop"]
}

func (m *MockRuntime) List(ctx context.Context) ([]Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("List")
	if err := m.Errors["List"]; err != nil {
		return nil, err
	}
	out := make([]Container, len(m.Containers))
	copy(out, m.Containers)
	return out, nil
}

func (m *MockRuntime) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Exists")
	if err := m.Errors["Exists"]; err != nil {
		return false, err
	}
	for _, c := range m.Containers {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRuntime) Port(ctx context.Context, id string, containerPort int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Port")
	if err := m.Errors["Port"]; err != nil {
		return 0, err
	}
	port, ok := m.Ports[id]
	if !ok {
		return 0, fmt.Errorf("no mapping for %s", id)
	}
	return port, nil
}

func (m *MockRuntime) Exec(ctx context.Context, id string, command []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Exec")
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := execKey(id, command)
	if err := m.ExecErrors[key]; err != nil {
		return "", err
	}
	out, ok := m.ExecOutputs[key]
	if !ok {
		if err := m.Errors["Exec"]; err != nil {
			return "", err
		}
	}
	return out, nil
}

var _ Runtime = (*MockRuntime)(nil)
