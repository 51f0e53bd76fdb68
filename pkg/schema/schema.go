// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package schema validates decoded workload records against an embedded
// OpenAPI 3.0 document describing the persistence format of spec.md
// §6.2, the way the teacher's generated API clients validate a decoded
// SLURM REST payload against its OpenAPI spec before handing it to
// calling code.
package schema

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
)

//go:embed record.yaml
var recordSpec []byte

var (
	loadOnce   sync.Once
	loadErr    error
	recordsDef *openapi3.SchemaRef
)

func load() {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(recordSpec)
	if err != nil {
		loadErr = fmt.Errorf("schema: failed to parse embedded OpenAPI document: %w", err)
		return
	}
	if err := doc.Validate(context.Background()); err != nil {
		loadErr = fmt.Errorf("schema: embedded OpenAPI document is invalid: %w", err)
		return
	}
	ref, ok := doc.Components.Schemas["Records"]
	if !ok {
		loadErr = fmt.Errorf("schema: embedded document has no Records component")
		return
	}
	recordsDef = ref
}

// ValidateRecordsDocument validates raw YAML/JSON-decoded-to-map document
// bytes (already unmarshaled into a generic structure suitable for JSON
// re-encoding) against the Records schema, returning
// CodeMalformedWorkload on any mismatch (spec.md §7.3). Callers typically
// pass the result of yaml.Unmarshal into a map[string]interface{}, since
// kin-openapi validates against JSON-shaped values.
func ValidateRecordsDocument(doc any) error {
	loadOnce.Do(load)
	if loadErr != nil {
		return bwerrors.NewMalformedWorkload("schema: could not load validation schema", loadErr)
	}

	// Round-trip through JSON so YAML-sourced map[interface{}]interface{}
	// nodes become the map[string]interface{}/[]interface{} shapes
	// openapi3.Schema.VisitJSON expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return bwerrors.NewMalformedWorkload("schema: document is not JSON-representable", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return bwerrors.NewMalformedWorkload("schema: document is not JSON-representable", err)
	}

	if err := recordsDef.Value.VisitJSON(jsonDoc); err != nil {
		return bwerrors.NewMalformedWorkload("workload record failed schema validation", err)
	}
	return nil
}
