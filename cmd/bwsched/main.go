// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Command bwsched is the scenario driver CLI of SPEC_FULL.md §3.4: it
// generates synthetic workloads, runs them through one or all of the
// three scheduling algorithms, compares their scores, and optionally
// serves a read-only viewer over the result. It is a standalone binary,
// external to pkg/engine, which has no knowledge of the CLI, files, or
// network I/O it wraps around itself (spec.md Non-goals).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/logging"
)

var (
	// Version information, set at build time.
	Version   = "dev"
	BuildTime = ""
	Commit    = ""

	logFormat string
	debug     bool

	rootCmd = &cobra.Command{
		Use:     "bwsched",
		Short:   "Discrete-time bandwidth scheduler scenario driver",
		Long:    "bwsched generates and runs discrete-time bandwidth scheduling scenarios against the SimpleGreedy, GreedyCompression, and PreemptivePriority algorithms.",
		Version: Version,
	}
)

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)

	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug-level tick tracing")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bwsched version %s\n", Version)
		if BuildTime != "" {
			fmt.Printf("Build time: %s\n", BuildTime)
		}
		if Commit != "" {
			fmt.Printf("Commit: %s\n", Commit)
		}
	},
}

// newRunLogger builds the per-invocation Logger plus a fresh run id
// (SPEC_FULL.md §3.4), returning both so callers can thread the id
// through logging.WithRunID and print it for correlation.
func newRunLogger() (logging.Logger, string) {
	runID := uuid.NewString()
	format := logging.FormatText
	if logFormat == string(logging.FormatJSON) {
		format = logging.FormatJSON
	}
	cfg := logging.DefaultConfig()
	cfg.Format = format
	cfg.Version = Version
	if debug {
		cfg.Level = slog.LevelDebug
	}
	logger := logging.NewLogger(cfg).With("run_id", runID)
	return logger, runID
}

// exitCode maps a driver-level error to the process exit status of
// spec.md §6.4: non-zero specifically for CodeInvariantBreach, since
// that is the one condition that means this module's own invariants
// failed, not a bad input or a config mistake.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if bwerrors.IsCode(err, bwerrors.CodeInvariantBreach) {
		return 2
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
