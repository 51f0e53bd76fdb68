// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jontk/bwsched/pkg/retry"
	"github.com/jontk/bwsched/pkg/workload"
	"github.com/jontk/bwsched/pkg/workloadgen"
)

var (
	genCount       int
	genCapacityCap int
	genStart       int
	genEnd         int
	genMaxDuration int
	genSeed        int64
	genPolicy      string
	genOutput      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic workload and write it to a YAML file",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genCount, "count", 20, "Number of jobs to generate")
	generateCmd.Flags().IntVar(&genCapacityCap, "capacity-cap", 10, "Upper bound on any job's bandwidth demand")
	generateCmd.Flags().IntVar(&genStart, "start-time", 0, "Earliest created_time")
	generateCmd.Flags().IntVar(&genEnd, "end-time", 50, "Latest created_time")
	generateCmd.Flags().IntVar(&genMaxDuration, "max-duration", 10, "Upper bound on job duration")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 1, "Random seed for deterministic generation")
	generateCmd.Flags().StringVar(&genPolicy, "priority-policy", string(workloadgen.PolicyRandom),
		"One of random, ascending_by_priority, regular_premium_then_enterprise, high_bandwidth_chunks")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "workload.yaml", "Output file path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, runID := newRunLogger()
	ctx := context.Background()

	gen := workloadgen.New(genSeed)
	params := workloadgen.Params{
		Count:          genCount,
		CapacityCap:    genCapacityCap,
		StartTime:      genStart,
		EndTime:        genEnd,
		MaxDuration:    genMaxDuration,
		PriorityPolicy: workloadgen.PriorityPolicy(genPolicy),
		Seed:           genSeed,
	}

	w, err := gen.Generate(ctx, params)
	if err != nil {
		logger.Error("generation failed", "error", err.Error())
		return err
	}

	data, err := workload.Marshal(w)
	if err != nil {
		return err
	}

	writePolicy := retry.NewExponentialBackoff().WithMaxRetries(3).WithMinWaitTime(10 * time.Millisecond)
	if err := retry.Do(ctx, writePolicy, func(attempt int) error {
		return os.WriteFile(genOutput, data, 0o644)
	}); err != nil {
		logger.Error("failed to write workload file", "path", genOutput, "error", err.Error())
		return err
	}

	fmt.Printf("run %s: generated %d jobs -> %s\n", runID, w.Len(), genOutput)
	return nil
}
