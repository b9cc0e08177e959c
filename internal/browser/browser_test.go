package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/denhq/den/internal/system"
)

func TestOpen_InvokesPlatformOpener(t *testing.T) {
	exec := system.NewMockExecutor()

	Open(context.Background(), exec, "http://localhost:12345/")

	if len(exec.Calls) != 1 {
		t.Fatalf("calls = %v, want one opener invocation", exec.Calls)
	}
	if !strings.Contains(exec.Calls[0], "http://localhost:12345/") {
		t.Errorf("opener call missing url: %q", exec.Calls[0])
	}
}

func TestOpen_FailureIsSilent(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("xdg-open", "", errors.New("no display"))
	exec.Respond("open", "", errors.New("no display"))
	exec.Respond("cmd", "", errors.New("no display"))

	// Must not panic or propagate the error.
	Open(context.Background(), exec, "http://localhost:12345/")
}
