package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/denhq/den/internal/system"
)

func TestDockerRuntime_List(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("docker ps", "abc123\tbrave-otter\ndef456\tcalm-fox\n", nil)

	rt := &DockerRuntime{Executor: exec}
	containers, err := rt.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(containers))
	}
	if containers[0].ID != "abc123" || containers[0].Name != "brave-otter" {
		t.Errorf("unexpected first container: %+v", containers[0])
	}
}

func TestDockerRuntime_ListEmpty(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("docker ps", "\n", nil)

	rt := &DockerRuntime{Executor: exec}
	containers, err := rt.List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(containers) != 0 {
		t.Errorf("expected no containers, got %+v", containers)
	}
}

func TestDockerRuntime_Exists(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("docker ps", "abc123\tbrave-otter\n", nil)

	rt := &DockerRuntime{Executor: exec}

	ok, err := rt.Exists(context.Background(), "brave-otter")
	if err != nil || !ok {
		t.Errorf("Exists(brave-otter) = %v, %v; want true", ok, err)
	}

	// Prefix matches must not count as collisions.
	ok, err = rt.Exists(context.Background(), "brave")
	if err != nil || ok {
		t.Errorf("Exists(brave) = %v, %v; want false", ok, err)
	}
}

func TestDockerRuntime_Port(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    int
		wantErr bool
	}{
		{"ipv4", "0.0.0.0:32768\n", 32768, false},
		{"ipv6 first", "[::]:4567\n0.0.0.0:4567\n", 4567, false},
		{"no mapping", "\n", 0, true},
		{"garbage", "nonsense\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := system.NewMockExecutor()
			exec.Respond("docker port", tt.output, nil)

			rt := &DockerRuntime{Executor: exec}
			got, err := rt.Port(context.Background(), "abc123", 8001)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Port() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Port() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDockerRuntime_LaunchArgs(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("docker run", "deadbeef\n", nil)

	rt := &DockerRuntime{Executor: exec}
	spec := LaunchSpec{
		Name:    "brave-otter",
		Image:   "den-agent:dev",
		Options: []string{"-p", "0:9000"},
		Env:     []string{"COMMITTISH=abc123"},
		Mounts:  []string{"/repo:/repo"},
		WorkDir: "/home/agent",
		Command: []string{"/mnt/den", "inside", "--slug", "brave-otter"},
	}

	id, err := rt.Launch(context.Background(), spec)
	if err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}
	if id != "deadbeef" {
		t.Errorf("Launch() id = %q", id)
	}

	calls := exec.CallsFor("docker run")
	if len(calls) != 1 {
		t.Fatalf("expected one docker run, got %v", calls)
	}
	line := calls[0]

	for _, want := range []string{
		"--rm -d",
		"--hostname brave-otter",
		"--name brave-otter",
		"-p 0:9000",
		"-e COMMITTISH=abc123",
		"-v /repo:/repo",
		"-w /home/agent",
		"den-agent:dev /mnt/den inside --slug brave-otter",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("docker run missing %q:\n%s", want, line)
		}
	}
}

func TestDockerRuntime_RunInteractiveUsesTTY(t *testing.T) {
	exec := system.NewMockExecutor()

	rt := &DockerRuntime{Executor: exec}
	err := rt.RunInteractive(context.Background(), LaunchSpec{Name: "x", Image: "img"})
	if err != nil {
		t.Fatalf("RunInteractive() failed: %v", err)
	}

	if len(exec.Interactive) != 1 || !strings.Contains(exec.Interactive[0], "-it") {
		t.Errorf("expected interactive docker run with -it, got %v", exec.Interactive)
	}
}

func TestDockerRuntime_ExecError(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("docker exec", "", errors.New("exit status 1"))

	rt := &DockerRuntime{Executor: exec}
	if _, err := rt.Exec(context.Background(), "abc", []string{"test", "-f", "/mnt/den"}); err == nil {
		t.Fatal("Exec() should propagate failure")
	}
}
