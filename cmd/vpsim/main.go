// Package main provides the vpsim command line tool.
// vpsim runs instruction traces through value and branch predictors.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	verbosity int
	logJSON   bool
)

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if logJSON || !isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vpsim",
		Short:         "Trace-driven value and branch predictor simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Always log in JSON")

	root.AddCommand(newRunCmd(), newConvertCmd(), newReportsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
