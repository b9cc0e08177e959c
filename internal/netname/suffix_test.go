package netname

import (
	"context"
	"errors"
	"testing"

	"github.com/denhq/den/internal/system"
)

func TestMagicDNSSuffix_Found(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("tailscale status -json", `{"MagicDNSSuffix":"tail.ts.net."}`, nil)

	if got := MagicDNSSuffix(context.Background(), exec); got != "tail.ts.net" {
		t.Errorf("MagicDNSSuffix() = %q, want tail.ts.net", got)
	}
}

func TestMagicDNSSuffix_NoTailscale(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("tailscale", "", errors.New("executable file not found"))

	if got := MagicDNSSuffix(context.Background(), exec); got != "" {
		t.Errorf("MagicDNSSuffix() = %q, want empty", got)
	}
}

func TestMagicDNSSuffix_MalformedStatus(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Respond("tailscale status -json", "not json", nil)

	if got := MagicDNSSuffix(context.Background(), exec); got != "" {
		t.Errorf("MagicDNSSuffix() = %q, want empty", got)
	}
}
