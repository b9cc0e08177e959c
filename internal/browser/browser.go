// Package browser opens URLs in the user's default browser.
package browser

import (
	"context"
	"runtime"

	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/system"
)

// Open launches the platform browser on url. Failures are logged, never
// returned; a session works fine without a browser.
func Open(ctx context.Context, exec system.CommandExecutor, url string) {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name = "open"
		args = []string{url}
	case "windows":
		name = "cmd"
		args = []string{"/c", "start", url}
	default:
		name = "xdg-open"
		args = []string{url}
	}

	if out, err := exec.Execute(ctx, name, args...); err != nil {
		logging.Warn("failed to open browser", "url", url, "output", string(out), "error", err)
	}
}
