package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denhq/den/internal/browser"
	"github.com/denhq/den/internal/dashboard"
	"github.com/denhq/den/internal/netname"
	"github.com/denhq/den/internal/runtime"
	"github.com/denhq/den/internal/session"
	"github.com/denhq/den/internal/system"
	"github.com/denhq/den/internal/tui"
)

var psPlain bool

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running sessions",
	Args:  cobra.NoArgs,
	RunE:  runPs,
}

func init() {
	psCmd.Flags().BoolVar(&psPlain, "plain", false, "Print a plain listing instead of the interactive picker")
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt := runtime.NewDockerRuntime()
	tracker := dashboard.NewTracker(rt)
	if err := tracker.Poll(ctx); err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	states := tracker.Snapshot()

	if psPlain {
		fmt.Print(tui.ListView(states))
		return nil
	}

	result, err := tui.RunPicker(states)
	if err != nil {
		return err
	}

	switch result.Action {
	case tui.ActionAttach:
		return system.DefaultExecutor().ReplaceProcess(
			"docker", "exec", "-it", result.Session.ID, "tmux", "attach")

	case tui.ActionOpen:
		url := sessionURL(ctx, *result.Session)
		if url == "" {
			logWarning("No reachable address for %s", result.Session.Name)
			return nil
		}
		browser.Open(ctx, system.DefaultExecutor(), url)
		return nil

	case tui.ActionStop:
		if err := rt.Stop(ctx, result.Session.Name); err != nil {
			return err
		}
		logSuccess("Stopped session %s", result.Session.Name)
		return nil
	}

	return nil
}

// sessionURL picks the web terminal address: the tailnet hostname when a DNS
// suffix is available, the localhost port mapping otherwise.
func sessionURL(ctx context.Context, state dashboard.ContainerState) string {
	if suffix := netname.MagicDNSSuffix(ctx, system.DefaultExecutor()); suffix != "" {
		return fmt.Sprintf("http://%s.%s:%d/", state.Name, suffix, session.TerminalPort)
	}
	if state.TerminalPort > 0 {
		return fmt.Sprintf("http://localhost:%d/", state.TerminalPort)
	}
	return ""
}
