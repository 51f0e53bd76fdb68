// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID                int    `json:"id"`
	Bandwidth         int    `json:"bandwidth"`
	MinBandwidth      int    `json:"min_bandwidth"`
	OriginalBandwidth int    `json:"original_bandwidth"`
	CreatedTime       int    `json:"created_time"`
	Duration          int    `json:"duration"`
	Priority          string `json:"priority"`
}

type testRecords struct {
	Jobs []testRecord `json:"jobs"`
}

func TestValidateRecordsDocumentAccepts(t *testing.T) {
	doc := testRecords{Jobs: []testRecord{
		{ID: 1, Bandwidth: 4, MinBandwidth: 2, OriginalBandwidth: 4, CreatedTime: 0, Duration: 5, Priority: "REGULAR"},
	}}
	require.NoError(t, ValidateRecordsDocument(doc))
}

func TestValidateRecordsDocumentRejectsUnknownPriority(t *testing.T) {
	doc := testRecords{Jobs: []testRecord{
		{ID: 1, Bandwidth: 4, MinBandwidth: 2, OriginalBandwidth: 4, CreatedTime: 0, Duration: 5, Priority: "GOLD"},
	}}
	err := ValidateRecordsDocument(doc)
	require.Error(t, err)
}

func TestValidateRecordsDocumentRejectsMissingField(t *testing.T) {
	doc := map[string]any{
		"jobs": []map[string]any{
			{"id": 1, "bandwidth": 4, "min_bandwidth": 2, "original_bandwidth": 4, "created_time": 0},
		},
	}
	err := ValidateRecordsDocument(doc)
	require.Error(t, err)
}

func TestValidateRecordsDocumentRejectsZeroDuration(t *testing.T) {
	doc := testRecords{Jobs: []testRecord{
		{ID: 1, Bandwidth: 4, MinBandwidth: 2, OriginalBandwidth: 4, CreatedTime: 0, Duration: 0, Priority: "REGULAR"},
	}}
	err := ValidateRecordsDocument(doc)
	require.Error(t, err)
}

func TestValidateRecordsDocumentAcceptsEmptyJobList(t *testing.T) {
	doc := testRecords{Jobs: []testRecord{}}
	assert.NoError(t, ValidateRecordsDocument(doc))
}
