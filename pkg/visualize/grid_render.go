// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package visualize provides read-only consumers of a finished or
// in-progress *plan.ExecutionPlan: an ASCII grid renderer for terminal
// output and an optional HTTP/WebSocket viewer (server.go, hub.go). Per
// spec.md's Non-goal on network I/O, nothing in pkg/engine imports this
// package or any of its transitive dependencies.
package visualize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jontk/bwsched/pkg/plan"
)

// RenderASCII renders the capacity/time grid of an ExecutionPlan as a
// text table, one row per capacity unit and one column per tick, grounded
// on original_source/heatmap_plot.py's matrix shape but rendered as text
// since this is a CLI, not a plotting environment.
func RenderASCII(p *plan.ExecutionPlan) (string, error) {
	grid, err := p.Grid()
	if err != nil {
		return "", err
	}

	if len(grid) == 0 || len(grid[0]) == 0 {
		return "(empty plan: no completed jobs)\n", nil
	}

	width := len(grid[0])
	cellWidth := columnWidth(grid)

	var b strings.Builder
	b.WriteString("tick  ")
	for t := 0; t < width; t++ {
		fmt.Fprintf(&b, "%*d ", cellWidth, t)
	}
	b.WriteByte('\n')

	for r := len(grid) - 1; r >= 0; r-- {
		fmt.Fprintf(&b, "bw%-3d ", r)
		for t := 0; t < width; t++ {
			cell := "."
			if grid[r][t] != 0 {
				cell = strconv.Itoa(grid[r][t])
			}
			fmt.Fprintf(&b, "%*s ", cellWidth, cell)
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func columnWidth(grid [][]int) int {
	width := 1
	for _, row := range grid {
		for _, v := range row {
			w := len(strconv.Itoa(v))
			if w > width {
				width = w
			}
		}
	}
	return width
}

// ScoreTable renders the per-priority average score table printed by
// `bwsched run` (spec.md §4.7 aggregate outcome metric).
func ScoreTable(p *plan.ExecutionPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %8s %10s\n", "PRIORITY", "COUNT", "AVG SCORE")
	for _, avg := range p.AveragesByPriority() {
		fmt.Fprintf(&b, "%-12s %8d %10.2f\n", avg.Priority.String(), avg.Count, avg.Average)
	}
	fmt.Fprintf(&b, "\ncompleted=%d dropped=%d total=%d\n", len(p.Completed), len(p.Dropped), p.TotalJobs())
	return b.String()
}
