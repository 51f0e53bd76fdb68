// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/visualize"
	"github.com/jontk/bwsched/pkg/workload"
)

var (
	serveInput     string
	serveAlgorithm string
	serveCapacity  int
	serveAddr      string
)

// serveCmd is the optional network viewer of SPEC_FULL.md §3.3: a
// separate process from the engine, never invoked by Scheduler.Run
// itself, that runs the workload to completion and then exposes the
// finished plan over HTTP. The websocket endpoint is mounted, but since
// the plan is never replaced after serving starts, no grid deltas are
// broadcast on it.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a workload and serve its execution plan over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "workload.yaml", "Workload YAML file to load")
	serveCmd.Flags().StringVar(&serveAlgorithm, "algorithm", string(engine.SimpleGreedy), "One of SG, GC, PP")
	serveCmd.Flags().IntVar(&serveCapacity, "capacity", 10, "Shared bandwidth capacity")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8089", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, runID := newRunLogger()

	data, err := os.ReadFile(serveInput)
	if err != nil {
		return err
	}
	w, err := workload.Unmarshal(data)
	if err != nil {
		return err
	}

	sched, err := engine.New(engine.Algorithm(serveAlgorithm), engine.Options{Logger: logger})
	if err != nil {
		return err
	}

	executionPlan, err := sched.Run(w, serveCapacity)
	if err != nil {
		logger.Error("run failed", "run_id", runID, "error", err.Error())
		return err
	}

	server := visualize.NewServer(executionPlan)
	fmt.Printf("run %s: serving finished plan on %s (GET /plan, /grid, /jobs/{id}, ws /ws)\n", runID, serveAddr)
	return http.ListenAndServe(serveAddr, server.Handler())
}
