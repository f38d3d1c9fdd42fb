// Package main provides the mepflow binary. mepflow reads a model snapshot
// exported from the BIM host and runs the flow, property, find and rotate
// commands against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-mepflow/pkg/dialog"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "mepflow"
)

// Exit codes
const (
	exitError     = 1
	exitCancelled = 2
	exitPanic     = 3
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitPanic)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, ErrCancelled) {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCancelled)
		}
		_ = dialog.Show(os.Stderr, dialog.Failure(dialog.ErrorTitle, err))
		os.Exit(exitError)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Flow-aware MEP export",
		Long: `mepflow exports MEP elements of a model snapshot to CSV with
geographic coordinates and flow-aware connectivity.

Commands:
- export      flow-aware (or legacy) connectivity CSV
- properties  property matrix of the visible elements
- find        look up one element by unique id
- rotate      rotate the model about the project base point`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVarP(&opts.snapshotPath, "snapshot", "s", "", "Model snapshot (.json, .yaml, optionally .sz)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (json, text)")

	cmd.AddCommand(
		exportCmd(opts),
		propertiesCmd(opts),
		findCmd(opts),
		rotateCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}
