package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/system"
)

// DockerRuntime implements Runtime by invoking the docker binary.
type DockerRuntime struct {
	// Executor runs docker commands; defaults to the real OS executor.
	Executor system.CommandExecutor
}

// NewDockerRuntime creates a DockerRuntime using the default executor.
func NewDockerRuntime() *DockerRuntime {
	return &DockerRuntime{Executor: system.DefaultExecutor()}
}

func (r *DockerRuntime) run(ctx context.Context, args ...string) (string, error) {
	out, err := r.Executor.Output(ctx, "docker", args...)
	if err != nil {
		return "", fmt.Errorf("docker %s failed: %w", args[0], err)
	}
	return string(out), nil
}

// launchArgs builds the docker run argv shared by detached and interactive
// launches.
func launchArgs(spec LaunchSpec, detached bool) []string {
	args := []string{"run", "--rm"}
	if detached {
		args = append(args, "-d")
	} else {
		args = append(args, "-it")
	}
	args = append(args, "--hostname", spec.Name, "--name", spec.Name)
	args = append(args, spec.Options...)
	for _, env := range spec.Env {
		args = append(args, "-e", env)
	}
	for _, mount := range spec.Mounts {
		args = append(args, "-v", mount)
	}
	if spec.WorkDir != "" {
		args = append(args, "-w", spec.WorkDir)
	}
	args = append(args, spec.Image)
	args = append(args, spec.Command...)
	return args
}

// Launch starts a detached container and returns its id.
func (r *DockerRuntime) Launch(ctx context.Context, spec LaunchSpec) (string, error) {
	logging.Debug("launching container", "name", spec.Name, "image", spec.Image)

	out, err := r.run(ctx, launchArgs(spec, true)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RunInteractive starts a foreground container attached to the terminal.
func (r *DockerRuntime) RunInteractive(ctx context.Context, spec LaunchSpec) error {
	logging.Debug("launching interactive container", "name", spec.Name, "image", spec.Image)

	return r.Executor.ExecuteInteractive(ctx, "docker", launchArgs(spec, false)...)
}

// Wait blocks until the named container exits.
func (r *DockerRuntime) Wait(ctx context.Context, name string) error {
	_, err := r.run(ctx, "wait", name)
	return err
}

// Stop requests that a running container stop.
func (r *DockerRuntime) Stop(ctx context.Context, name string) error {
	logging.Debug("stopping container", "name", name)

	_, err := r.run(ctx, "stop", name)
	return err
}

// List returns the currently running containers.
func (r *DockerRuntime) List(ctx context.Context) ([]Container, error) {
	out, err := r.run(ctx, "ps", "--format", "{{.ID}}\t{{.Names}}")
	if err != nil {
		return nil, err
	}

	var containers []Container
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		id, name, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		containers = append(containers, Container{ID: id, Name: name})
	}
	return containers, nil
}

// Exists reports whether a running container has exactly this name.
func (r *DockerRuntime) Exists(ctx context.Context, name string) (bool, error) {
	containers, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range containers {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Port resolves the host port mapped to a container port.
// docker port output looks like "0.0.0.0:32768" or "[::]:32768".
func (r *DockerRuntime) Port(ctx context.Context, id string, containerPort int) (int, error) {
	out, err := r.run(ctx, "port", id, strconv.Itoa(containerPort))
	if err != nil {
		return 0, err
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return 0, fmt.Errorf("no mapping for container port %d", containerPort)
	}

	mapping := lines[0]
	idx := strings.LastIndexByte(mapping, ':')
	if idx < 0 {
		return 0, fmt.Errorf("unexpected port mapping %q", mapping)
	}

	port, err := strconv.Atoi(mapping[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("unexpected port mapping %q: %w", mapping, err)
	}
	return port, nil
}

// Exec runs a command inside a container and returns its combined output.
func (r *DockerRuntime) Exec(ctx context.Context, id string, command []string) (string, error) {
	args := append([]string{"exec", id}, command...)
	out, err := r.Executor.Execute(ctx, "docker", args...)
	if err != nil {
		return string(out), fmt.Errorf("docker exec failed: %w", err)
	}
	return string(out), nil
}

var _ Runtime = (*DockerRuntime)(nil)
