// Package dto is the shaping boundary between raw client input and persisted
// data. It derives create/update transforms from a schema declaration and
// formats records for output.
package dto

import (
	"encoding/json"
	"time"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/schema"
)

// DTO validates and shapes resource data against a schema.
type DTO struct {
	schema *schema.Schema

	// OmitFields are dropped from ToJSON output (sensitive fields such as
	// password hashes).
	OmitFields []string
}

// New creates a DTO bound to the given schema.
func New(s *schema.Schema, omitFields ...string) *DTO {
	return &DTO{
		schema:     s,
		OmitFields: omitFields,
	}
}

// Schema returns the underlying schema.
func (d *DTO) Schema() *schema.Schema {
	return d.schema
}

// ToCreateDTO validates create input. Auto fields and unknown keys are
// stripped, so the result never contains identifier, timestamp or soft-delete
// keys.
func (d *DTO) ToCreateDTO(input map[string]any) (map[string]any, error) {
	return d.schema.ValidateCreate(input)
}

// ToUpdateDTO validates a partial patch. An empty patch is rejected before
// any schema validation runs. When the schema declares an updated-at field,
// the current timestamp is injected into it.
func (d *DTO) ToUpdateDTO(input map[string]any) (map[string]any, error) {
	if len(input) == 0 {
		return nil, apierror.NewBadRequest("", "Update payload must not be empty")
	}

	// Copy before injecting the timestamp so the caller's map stays untouched.
	patch := make(map[string]any, len(input)+1)
	for k, v := range input {
		patch[k] = v
	}

	cfg := d.schema.Config()
	if cfg.UpdatedAtField != "" {
		patch[cfg.UpdatedAtField] = time.Now().UTC()
	}

	return d.schema.ValidateUpdate(patch)
}

// ToJSON formats a record for output. It is an identity transform minus
// OmitFields; struct records are flattened through their JSON encoding.
func (d *DTO) ToJSON(record any) map[string]any {
	if record == nil {
		return nil
	}

	var out map[string]any
	switch r := record.(type) {
	case map[string]any:
		out = make(map[string]any, len(r))
		for k, v := range r {
			out[k] = v
		}
	default:
		raw, err := json.Marshal(record)
		if err != nil {
			return nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil
		}
	}

	for _, field := range d.OmitFields {
		delete(out, field)
	}
	return out
}
