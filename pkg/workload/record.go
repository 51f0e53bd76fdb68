// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package workload

import (
	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Record is the portable, self-describing representation of a single job
// for the persistence boundary (spec.md §6.2). Field names match the
// table in spec.md exactly so the YAML document is self-explanatory
// without a schema reference.
type Record struct {
	ID                int    `yaml:"id" json:"id"`
	Bandwidth         int    `yaml:"bandwidth" json:"bandwidth"`
	MinBandwidth      int    `yaml:"min_bandwidth" json:"min_bandwidth"`
	OriginalBandwidth int    `yaml:"original_bandwidth" json:"original_bandwidth"`
	CreatedTime       int    `yaml:"created_time" json:"created_time"`
	Duration          int    `yaml:"duration" json:"duration"`
	Priority          string `yaml:"priority" json:"priority"`
}

// Records is a top-level document: a named batch of job records.
type Records struct {
	Jobs []Record `yaml:"jobs" json:"jobs"`
}

// ToRecords converts a Workload into its portable record form, preserving
// order.
func ToRecords(w *Workload) Records {
	recs := make([]Record, len(w.Jobs))
	for i, j := range w.Jobs {
		recs[i] = Record{
			ID:                j.ID,
			Bandwidth:         j.Bandwidth,
			MinBandwidth:      j.MinBandwidth,
			OriginalBandwidth: j.OriginalBandwidth,
			CreatedTime:       j.CreatedTime,
			Duration:          j.Duration,
			Priority:          j.Priority.String(),
		}
	}
	return Records{Jobs: recs}
}

// FromRecords reconstructs a Workload from its portable form. Each record
// is checked by job.New as its job is constructed, and the assembled
// workload is then checked by Validate, e.g. for duplicate ids (spec.md
// §7.3).
func FromRecords(recs Records) (*Workload, error) {
	w := New()
	for _, r := range recs.Jobs {
		priority, err := job.ParsePriority(r.Priority)
		if err != nil {
			return nil, err
		}
		j, err := job.New(r.ID, r.CreatedTime, r.Duration, priority, r.Bandwidth, r.MinBandwidth, r.OriginalBandwidth)
		if err != nil {
			return nil, err
		}
		w.Add(j)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Marshal serializes a Workload to its textual YAML form (spec.md §6.2).
func Marshal(w *Workload) ([]byte, error) {
	out, err := yaml.Marshal(ToRecords(w))
	if err != nil {
		return nil, bwerrors.NewMalformedWorkload("failed to marshal workload", err)
	}
	return out, nil
}

// Unmarshal parses the textual form back into a Workload, round-tripping
// exactly (spec.md §6.2, §8 Round-trip property). The decoded document is
// validated against pkg/schema's embedded OpenAPI description of the
// record shape before any job is constructed, mirroring the teacher's
// OpenAPI-validated REST responses but applied to this module's own
// on-disk format.
func Unmarshal(data []byte) (*Workload, error) {
	var recs Records
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, bwerrors.NewMalformedWorkload("failed to parse workload document", err)
	}
	if err := schema.ValidateRecordsDocument(recs); err != nil {
		return nil, err
	}
	return FromRecords(recs)
}
