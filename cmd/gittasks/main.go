package main

import (
	"fmt"
	"os"

	gterrors "github.com/christianjann/gittasks/internal/errors"
	"github.com/christianjann/gittasks/internal/cli"
	"github.com/christianjann/gittasks/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", output.ColorRed(gterrors.Kind(err)+":"), err)
		os.Exit(1)
	}
}
