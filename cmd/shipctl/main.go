// Package main provides the shipctl CLI: deploy the bot, build the admin
// panel executable, and check the tools both depend on.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/shipctl/pkg/runner"
)

// version is set via -ldflags during build
var version = "dev"

// stopSignals cancel the command context, which stops the wrapped tool.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// rootOptions holds the persistent flags.
type rootOptions struct {
	verbose    bool
	configPath string

	executor runner.Executor // nil runs real processes
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err, os.Stderr))
}

// newRootCmd creates the root command for shipctl
func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shipctl",
		Short: "Deploy and build helper for the bot project",
		Long: `shipctl wraps the two chores of the bot project:

  - deploy: run "railway up --service <name>" inside the project folder
  - build:  package the admin panel script into one executable with PyInstaller,
            installing PyInstaller first when it is missing

Run 'shipctl init <path>' once to record the project folder.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			globalconfig.SetConfigPath(opts.configPath)
		},
	}

	// Cobra handles usage; errors and exit codes are handled in main.
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging in the run log")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/shipctl/config.yaml)")

	rootCmd.AddCommand(
		newDeployCmd(opts),
		newBuildCmd(opts),
		newDoctorCmd(),
		newInitCmd(),
		newInfoCmd(),
		newHistoryCmd(),
		newPanelCmd(opts),
		newConfigCmd(),
	)

	return rootCmd
}

// exitCode prints err unless it only carries a status, and returns the
// process exit code.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var status *statusError
	if errors.As(err, &status) {
		return status.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}
