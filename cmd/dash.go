package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/denhq/den/internal/dashboard"
	"github.com/denhq/den/internal/netname"
	"github.com/denhq/den/internal/runtime"
	"github.com/denhq/den/internal/system"
)

var (
	dashPort int
	dashHost string
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Serve the session dashboard",
	Long: `Serve a web dashboard showing all running den sessions as live tiles.

Each tile shows the current agent pane output and links to the session's web
terminal. Tiles are ordered by last activity.`,
	Args: cobra.NoArgs,
	RunE: runDash,
}

func init() {
	dashCmd.Flags().IntVar(&dashPort, "port", 2000, "Port to serve on")
	dashCmd.Flags().StringVar(&dashHost, "host", "0.0.0.0", "Host to bind to")
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	suffix := netname.MagicDNSSuffix(cmd.Context(), system.DefaultExecutor())
	if suffix != "" {
		logInfo("Using Tailscale MagicDNS suffix: %s", suffix)
	} else {
		logInfo("Tailscale not detected, using localhost port mappings")
	}

	tracker := dashboard.NewTracker(runtime.NewDockerRuntime())
	srv := dashboard.NewServer(tracker, suffix)

	addr := fmt.Sprintf("%s:%d", dashHost, dashPort)
	logInfo("Serving dashboard on http://%s/", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
