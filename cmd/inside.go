package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denhq/den/internal/config"
	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/multiplexer"
	"github.com/denhq/den/internal/sandbox"
	"github.com/denhq/den/internal/vcs"
)

var insideSession sandbox.Session

// insideCmd is invoked by den itself as the container entrypoint; it is not
// part of the user-facing surface.
var insideCmd = &cobra.Command{
	Use:    "inside",
	Short:  "Run the in-container session lifecycle",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runInside,
}

func init() {
	flags := insideCmd.Flags()
	flags.StringVar(&insideSession.Slug, "slug", "", "Session slug")
	flags.StringVar(&insideSession.GitDir, "git-dir", "", "Mounted git common directory")
	flags.StringVar(&insideSession.Committish, "committish", "", "Commit the session branch starts from")
	flags.StringVar(&insideSession.Prefix, "prefix", ".", "Subdirectory to start the agent in")
	flags.StringVar(&insideSession.AgentKey, "agent", "", "Agent key")
	flags.StringVar(&insideSession.AgentCmd, "agent-cmd", "", "Agent command line")
	flags.StringVar(&insideSession.Suffix, "suffix", "", "Tailnet DNS suffix")

	for _, required := range []string{"slug", "git-dir", "committish", "agent", "agent-cmd"} {
		cobra.CheckErr(insideCmd.MarkFlagRequired(required))
	}

	rootCmd.AddCommand(insideCmd)
}

func runInside(cmd *cobra.Command, args []string) error {
	raw := os.Getenv(config.EnvConfigJSON)
	if raw == "" {
		return errors.ConfigError(config.EnvConfigJSON+" is not set", nil)
	}
	cfg, err := config.FromJSON(raw)
	if err != nil {
		return err
	}

	initializer := sandbox.NewInitializer(cfg, vcs.NewGitClient(), multiplexer.NewTmux())
	if err := initializer.Run(cmd.Context(), insideSession); err != nil {
		return err
	}

	fmt.Printf("\nExited container: %s\n", insideSession.Slug)
	return nil
}
