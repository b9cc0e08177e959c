package system

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockExecutor implements CommandExecutor for testing. Responses are keyed by
// the space-joined command line; the longest matching prefix wins, so tests
// can stub "git rev-parse" without enumerating every argument.
type MockExecutor struct {
	mu sync.Mutex

	// Responses maps command-line prefixes to canned results.
	Responses map[string]MockResponse

	// Calls records every executed command line in order.
	Calls []string

	// Interactive records command lines run via ExecuteInteractive.
	Interactive []string

	// Replaced records the command line passed to ReplaceProcess, if any.
	Replaced []string
}

// MockResponse is a canned result for a mocked command.
type MockResponse struct {
	Output []byte
	Err    error
	// Delay simulates a slow command; the executor honors context deadlines.
	Delay time.Duration
}

// NewMockExecutor creates a MockExecutor with no canned responses.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Responses: make(map[string]MockResponse)}
}

// Respond registers a canned response for a command-line prefix.
func (m *MockExecutor) Respond(prefix string, output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[prefix] = MockResponse{Output: []byte(output), Err: err}
}

// RespondSlow registers a canned response that takes delay to produce.
func (m *MockExecutor) RespondSlow(prefix string, output string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[prefix] = MockResponse{Output: []byte(output), Delay: delay}
}

// CallsFor returns recorded command lines starting with prefix.
func (m *MockExecutor) CallsFor(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockExecutor) lookup(line string) (MockResponse, bool) {
	best := ""
	for prefix := range m.Responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return MockResponse{}, false
	}
	return m.Responses[best], true
}

func (m *MockExecutor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	m.mu.Lock()
	m.Calls = append(m.Calls, line)
	resp, ok := m.lookup(line)
	m.mu.Unlock()

	if !ok {
		return nil, nil
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return resp.Output, resp.Err
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return m.run(ctx, name, args...)
}

func (m *MockExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return m.run(ctx, name, args...)
}

func (m *MockExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")

	m.mu.Lock()
	m.Interactive = append(m.Interactive, line)
	resp, ok := m.lookup(line)
	m.mu.Unlock()

	if ok {
		return resp.Err
	}
	return nil
}

func (m *MockExecutor) ReplaceProcess(name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replaced = append([]string{name}, args...)
	return nil
}

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	links map[string]string

	// Error injection
	MkdirErr   error
	RenameErr  error
	SymlinkErr error
	WriteErr   error
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		links: make(map[string]string),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// HasDir reports whether a directory exists in the mock filesystem.
func (m *MockFS) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

// LinkTarget returns the target of a symlink, if present.
func (m *MockFS) LinkTarget(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.links[path]
	return t, ok
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirErr != nil {
		return m.MkdirErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for path != "." && path != "/" {
		m.dirs[path] = true
		path = filepath.Dir(path)
	}
	return nil
}

func (m *MockFS) Mkdir(path string, perm fs.FileMode) error {
	if m.MkdirErr != nil {
		return m.MkdirErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirs[path] {
		return fs.ErrExist
	}
	m.dirs[path] = true
	return nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
	}
	if m.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if _, ok := m.links[path]; ok {
		return &mockFileInfo{name: filepath.Base(path)}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) Exists(path string) bool {
	_, err := m.Stat(path)
	return err == nil
}

func (m *MockFS) Rename(oldpath, newpath string) error {
	if m.RenameErr != nil {
		return m.RenameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirs[oldpath] {
		delete(m.dirs, oldpath)
		m.dirs[newpath] = true
		return nil
	}
	if data, ok := m.files[oldpath]; ok {
		delete(m.files, oldpath)
		m.files[newpath] = data
		return nil
	}
	return fs.ErrNotExist
}

func (m *MockFS) Symlink(oldname, newname string) error {
	if m.SymlinkErr != nil {
		return m.SymlinkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[newname] = oldname
	return nil
}

func (m *MockFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if m.dirs[path] {
		delete(m.dirs, path)
		return nil
	}
	if _, ok := m.links[path]; ok {
		delete(m.links, path)
		return nil
	}
	return fs.ErrNotExist
}

func (m *MockFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(m.dirs, p)
		}
	}
	return nil
}

type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.size }
func (i *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (i *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i *mockFileInfo) IsDir() bool        { return i.isDir }
func (i *mockFileInfo) Sys() any           { return nil }
