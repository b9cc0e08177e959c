// Package dashboard tracks running den sessions and serves the activity
// dashboard over HTTP.
package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/multiplexer"
	"github.com/denhq/den/internal/runtime"
	"github.com/denhq/den/internal/session"
)

const (
	// probeTimeout bounds the per-container identity check.
	probeTimeout = 5 * time.Second

	// captureTimeout bounds the per-container pane capture.
	captureTimeout = 10 * time.Second
)

// ContainerState is the tracked state of one den session container.
type ContainerState struct {
	ID           string
	Name         string
	PaneContent  string
	TerminalPort int
	LastChange   time.Time

	fingerprint string
}

// Tracker polls the container runtime and maintains per-session state with
// change detection.
type Tracker struct {
	mu     sync.Mutex
	rt     runtime.Runtime
	states map[string]*ContainerState

	// Now supplies timestamps; tests inject a fake clock.
	Now func() time.Time
}

// NewTracker creates a Tracker over the given runtime.
func NewTracker(rt runtime.Runtime) *Tracker {
	return &Tracker{
		rt:     rt,
		states: make(map[string]*ContainerState),
		Now:    time.Now,
	}
}

// observation is one container's polled facts, gathered outside the lock.
type observation struct {
	container runtime.Container
	content   string
	port      int
	ours      bool
}

// Poll refreshes the tracked state from the runtime. Containers that are not
// den sessions are silently excluded; ones that disappeared are dropped.
func (t *Tracker) Poll(ctx context.Context) error {
	containers, err := t.rt.List(ctx)
	if err != nil {
		return fmt.Errorf("listing containers: %w", err)
	}

	observations := make([]observation, len(containers))
	var wg sync.WaitGroup
	for idx, c := range containers {
		wg.Add(1)
		go func(idx int, c runtime.Container) {
			defer wg.Done()
			observations[idx] = t.observe(ctx, c)
		}(idx, c)
	}
	wg.Wait()

	now := t.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]bool, len(observations))
	for _, obs := range observations {
		if !obs.ours {
			continue
		}
		seen[obs.container.ID] = true
		t.upsert(obs, now)
	}

	for id := range t.states {
		if !seen[id] {
			logging.Debug("session container gone", "id", id)
			delete(t.states, id)
		}
	}
	return nil
}

func (t *Tracker) observe(ctx context.Context, c runtime.Container) observation {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	_, err := t.rt.Exec(probeCtx, c.ID, []string{"test", "-f", session.SelfMountPath})
	cancel()
	if err != nil {
		return observation{container: c}
	}

	captureCtx, cancel := context.WithTimeout(ctx, captureTimeout)
	content, err := t.rt.Exec(captureCtx, c.ID, []string{"tmux", "capture-pane", "-p", "-t", multiplexer.PrimaryTarget})
	cancel()
	if err != nil {
		content = fmt.Sprintf("Error capturing pane: %v", err)
	}

	port, err := t.rt.Port(ctx, c.ID, session.TerminalPort)
	if err != nil {
		port = 0
	}

	return observation{container: c, content: content, port: port, ours: true}
}

func (t *Tracker) upsert(obs observation, now time.Time) {
	sum := sha256.Sum256([]byte(obs.content))
	fingerprint := hex.EncodeToString(sum[:])

	state, ok := t.states[obs.container.ID]
	if !ok {
		t.states[obs.container.ID] = &ContainerState{
			ID:           obs.container.ID,
			Name:         obs.container.Name,
			PaneContent:  obs.content,
			TerminalPort: obs.port,
			LastChange:   now,
			fingerprint:  fingerprint,
		}
		return
	}

	state.Name = obs.container.Name
	state.TerminalPort = obs.port
	if state.fingerprint != fingerprint {
		state.PaneContent = obs.content
		state.fingerprint = fingerprint
		state.LastChange = now
	}
}

// Snapshot returns the tracked sessions, most recently changed first.
func (t *Tracker) Snapshot() []ContainerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ContainerState, 0, len(t.states))
	for _, s := range t.states {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastChange.Equal(out[j].LastChange) {
			return out[i].LastChange.After(out[j].LastChange)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
