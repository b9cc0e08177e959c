package main

import (
	"os"

	"github.com/denhq/den/cmd"
	"github.com/denhq/den/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
