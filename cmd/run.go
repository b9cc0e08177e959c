package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/denhq/den/internal/browser"
	"github.com/denhq/den/internal/config"
	"github.com/denhq/den/internal/gate"
	"github.com/denhq/den/internal/netname"
	"github.com/denhq/den/internal/runtime"
	"github.com/denhq/den/internal/session"
	"github.com/denhq/den/internal/slug"
	"github.com/denhq/den/internal/system"
	"github.com/denhq/den/internal/vcs"
)

var openBrowser bool

var runCmd = &cobra.Command{
	Use:   "run <agent>",
	Short: "Launch an agent session in a fresh container",
	Long: `Launch an agent in a disposable container bound to a new git worktree.

The session is named with a generated slug, which doubles as the container
name, hostname, and branch name. With --open (the default) the container
runs detached and a browser tab opens on its web terminal; with --open=false
the session runs in the foreground of the current terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&openBrowser, "open", true, "Open the web terminal in a browser")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	agentKey := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rt := runtime.NewDockerRuntime()
	ctrl := session.NewController(rt, vcs.NewGitClient(), cfg)

	gitCtx, err := ctrl.ResolveGitContext(ctx)
	if err != nil {
		return err
	}
	logInfo("Git dir: %s", gitCtx.CommonDir)
	logInfo("Committish: %s", gitCtx.Committish)

	name, err := slug.NewAllocator(rt).Allocate(ctx)
	if err != nil {
		return err
	}
	logInfo("Generated slug: %s", name)

	suffix := netname.MagicDNSSuffix(ctx, system.DefaultExecutor())

	spec, err := ctrl.BuildLaunchSpec(name, gitCtx, agentKey, suffix)
	if err != nil {
		return err
	}

	if !openBrowser {
		return ctrl.RunInteractive(ctx, spec)
	}

	hostname := name
	if suffix != "" {
		hostname = name + "." + suffix
	}

	g := gate.New(hostname, session.TerminalPort)
	gateURL, err := g.Start()
	if err != nil {
		logWarning("Redirect server unavailable: %v", err)
	} else {
		logInfo("Opening browser to: %s", gateURL)
		logInfo("Will redirect to: http://%s:%d/ once the hostname resolves", hostname, session.TerminalPort)
		browser.Open(ctx, system.DefaultExecutor(), gateURL)
	}

	id, err := ctrl.Launch(ctx, spec)
	if err != nil {
		return err
	}

	logSuccess("Container started: %s", name)
	logInfo("Container ID: %s", id)
	logInfo("Terminal URL: http://%s:%d/", hostname, session.TerminalPort)
	fmt.Println()
	logInfo("To attach a terminal, run:")
	logInfo("  docker exec -it %s tmux attach", name)
	fmt.Println()
	logInfo("Waiting for the session to exit (press Ctrl+C to stop it)...")

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if err := ctrl.AwaitExit(sigCtx, name); err != nil {
		if sigCtx.Err() == context.Canceled {
			fmt.Println()
			logWarning("Interrupted, stopping session %s", name)
			return nil
		}
		return err
	}

	logSuccess("Session %s exited", name)
	return nil
}
