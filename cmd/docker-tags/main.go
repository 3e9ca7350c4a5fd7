package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rangerelf/docker-tags/version"
)

// gitCommit is set by the build system (-ldflags "-X main.gitCommit=...").
var gitCommit string

type globalOptions struct {
	debug bool // Enable debug output
}

// createApp returns the application's root command, and the global options
// the whole tool shares.
func createApp() (*cobra.Command, *globalOptions) {
	opts := globalOptions{}

	rootCommand := reportCommand(&opts)
	if gitCommit != "" {
		rootCommand.Version = fmt.Sprintf("%s commit: %s", version.Version, gitCommit)
	} else {
		rootCommand.Version = version.Version
	}
	rootCommand.PersistentPreRunE = opts.before
	rootCommand.SilenceUsage = true
	rootCommand.SilenceErrors = true
	// A single-command tool has no use for the implicit completion command.
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	rootCommand.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug output")
	return rootCommand, &opts
}

// before runs before the command's handler does.
func (opts *globalOptions) before(cmd *cobra.Command, args []string) error {
	if opts.debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func main() {
	rootCommand, _ := createApp()
	if err := rootCommand.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
