// Package netname discovers the tailnet DNS suffix sessions are reachable
// under.
package netname

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"time"

	"github.com/denhq/den/internal/logging"
	"github.com/denhq/den/internal/system"
)

// lookupTimeout bounds the tailscale status call.
const lookupTimeout = 5 * time.Second

// macAppBinary is where the Tailscale app bundles its CLI on macOS.
const macAppBinary = "/Applications/Tailscale.app/Contents/MacOS/Tailscale"

type tailscaleStatus struct {
	MagicDNSSuffix string `json:"MagicDNSSuffix"`
}

// MagicDNSSuffix returns the Tailscale MagicDNS suffix, or "" when tailscale
// is not available. Discovery is best effort and never fails the caller.
func MagicDNSSuffix(ctx context.Context, exec system.CommandExecutor) string {
	binaries := []string{"tailscale"}
	if runtime.GOOS == "darwin" {
		binaries = append(binaries, macAppBinary)
	}

	for _, bin := range binaries {
		lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
		out, err := exec.Output(lookupCtx, bin, "status", "-json")
		cancel()
		if err != nil {
			continue
		}

		var status tailscaleStatus
		if err := json.Unmarshal(out, &status); err != nil {
			logging.Debug("unparseable tailscale status", "binary", bin, "error", err)
			continue
		}

		if suffix := strings.TrimSuffix(status.MagicDNSSuffix, "."); suffix != "" {
			return suffix
		}
	}
	return ""
}
