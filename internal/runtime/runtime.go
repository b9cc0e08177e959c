// Package runtime defines the container runtime interface for den.
// This abstraction allows for multiple backend implementations and
// enables comprehensive testing through mocking.
package runtime

import (
	"context"
)

// Container identifies a running container.
type Container struct {
	ID   string
	Name string
}

// LaunchSpec describes a container launch. Environment values are captured
// when the launch spec is built, not tracked live afterward.
type LaunchSpec struct {
	// Name is the container name; it doubles as the hostname.
	Name string

	// Image is the container image tag.
	Image string

	// Options are raw runtime flags from configuration, passed through as-is.
	Options []string

	// Env holds KEY=VALUE pairs.
	Env []string

	// Mounts holds host:container bind specs.
	Mounts []string

	// WorkDir is the initial working directory inside the container.
	WorkDir string

	// Command is the argv to run inside the container.
	Command []string
}

// Registry is the subset of Runtime needed to check name collisions.
type Registry interface {
	// Exists reports whether a running container has exactly this name.
	Exists(ctx context.Context, name string) (bool, error)
}

// Runtime is the interface that container backends must implement.
// All methods must be safe for concurrent use, and all take a context so
// callers can bound each call's latency.
type Runtime interface {
	Registry

	// Launch starts a detached container and returns its id.
	Launch(ctx context.Context, spec LaunchSpec) (string, error)

	// RunInteractive starts a foreground container attached to the terminal.
	RunInteractive(ctx context.Context, spec LaunchSpec) error

	// Wait blocks until the named container exits.
	Wait(ctx context.Context, name string) error

	// Stop requests that a running container stop.
	Stop(ctx context.Context, name string) error

	// List returns the currently running containers.
	List(ctx context.Context) ([]Container, error)

	// Port resolves the host port mapped to a container port.
	Port(ctx context.Context, id string, containerPort int) (int, error)

	// Exec runs a command inside a container and returns its output.
	Exec(ctx context.Context, id string, command []string) (string, error)
}
