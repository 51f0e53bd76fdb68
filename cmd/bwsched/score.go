// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/pool"
	"github.com/jontk/bwsched/pkg/workload"
)

var (
	scoreInput    string
	scoreCapacity int
)

// scoreCmd is the Go re-expression of original_source/algo_tester.py:
// run the same workload through every algorithm and diff the scores.
// It is the pkg/pool.ScenarioPool scenario driver SPEC_FULL.md §3.4
// describes: three independent (algorithm, workload, capacity) pairs
// over the same base workload, run concurrently through one pool.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run a workload through SG, GC, and PP and compare scores",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "workload.yaml", "Workload YAML file to load")
	scoreCmd.Flags().IntVar(&scoreCapacity, "capacity", 10, "Shared bandwidth capacity")
}

func runScore(cmd *cobra.Command, args []string) error {
	logger, runID := newRunLogger()

	data, err := os.ReadFile(scoreInput)
	if err != nil {
		return err
	}
	base, err := workload.Unmarshal(data)
	if err != nil {
		return err
	}

	algorithms := []engine.Algorithm{engine.SimpleGreedy, engine.GreedyCompression, engine.PreemptivePriority}
	scenarios := make([]pool.Scenario, len(algorithms))
	for i, algo := range algorithms {
		scenarios[i] = pool.Scenario{
			Name:      string(algo),
			Algorithm: algo,
			Workload:  base.Clone(),
			Capacity:  scoreCapacity,
			Options:   engine.Options{Logger: logger},
		}
	}

	p := pool.New(pool.DefaultPoolConfig(), logger)
	results := p.Run(context.Background(), scenarios)

	titleCaser := cases.Title(language.English)
	fmt.Printf("run %s: comparing %d jobs across %d algorithms\n\n", runID, base.Len(), len(algorithms))
	fmt.Printf("%-24s %10s %10s %8s\n", "ALGORITHM", "COMPLETED", "DROPPED", "AVG")
	for _, result := range results {
		if result.Err != nil {
			logger.Error("algorithm run failed", "algorithm", result.Scenario.Algorithm, "error", result.Err.Error())
			return result.Err
		}

		var overall float64
		if len(result.Plan.Completed) > 0 {
			sum := 0
			for _, j := range result.Plan.Completed {
				sum += j.Score
			}
			overall = float64(sum) / float64(len(result.Plan.Completed))
		}

		fmt.Printf("%-24s %10d %10d %8.2f\n",
			titleCaser.String(string(result.Scenario.Algorithm)), len(result.Plan.Completed), len(result.Plan.Dropped), overall)
	}
	return nil
}
