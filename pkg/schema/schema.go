// Package schema declares the structural schema of a resource and derives the
// create/update validation rule sets from it. Field names double as JSON keys
// and database column names (snake_case).
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config declares a resource schema. Auto fields (identifier, timestamps,
// soft-delete flag) are managed by the framework and stripped from client
// input; any of them may be left empty for entities that do not carry them.
type Config struct {
	IDField         string
	CreatedAtField  string
	UpdatedAtField  string
	SoftDeleteField string

	// Fields maps field name to a go-playground/validator tag string,
	// e.g. "required,email" or "required,min=8".
	Fields map[string]string
}

// AutoFields returns the declared auto field names, empty ones excluded.
func (c Config) AutoFields() []string {
	var fields []string
	for _, f := range []string{c.IDField, c.CreatedAtField, c.UpdatedAtField, c.SoftDeleteField} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Schema is a validated schema declaration with derived rule sets.
type Schema struct {
	cfg         Config
	validate    *validator.Validate
	createRules map[string]string
	updateRules map[string]string
}

// New validates the configuration and derives the create/update rule sets.
// Every declared auto field must exist as a schema field.
func New(cfg Config) (*Schema, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("schema: no fields declared")
	}
	for _, auto := range cfg.AutoFields() {
		if _, ok := cfg.Fields[auto]; !ok {
			return nil, fmt.Errorf("schema: auto field %q is not a schema field", auto)
		}
	}

	s := &Schema{
		cfg:         cfg,
		validate:    validator.New(),
		createRules: make(map[string]string),
		updateRules: make(map[string]string),
	}

	auto := make(map[string]bool)
	for _, f := range cfg.AutoFields() {
		auto[f] = true
	}

	for field, rule := range cfg.Fields {
		if !auto[field] {
			s.createRules[field] = rule
		}
		// Updates keep every field except the identifier and creation
		// timestamp, with all rules made optional.
		if field != cfg.IDField && field != cfg.CreatedAtField {
			s.updateRules[field] = optionalRule(rule)
		}
	}

	return s, nil
}

// Config returns the schema configuration.
func (s *Schema) Config() Config {
	return s.cfg
}

// HasField reports whether name is a declared schema field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.cfg.Fields[name]
	return ok
}

// CreateRules returns the rule set for create input: the full schema minus
// all auto fields.
func (s *Schema) CreateRules() map[string]string {
	return s.createRules
}

// UpdateRules returns the rule set for update input: the full schema minus
// identifier and created-at, every rule optional.
func (s *Schema) UpdateRules() map[string]string {
	return s.updateRules
}

// ValidateCreate checks input against the create rules. Unknown keys and auto
// field keys are stripped before validation; the returned map contains only
// validated schema fields.
func (s *Schema) ValidateCreate(input map[string]any) (map[string]any, error) {
	data := make(map[string]any)
	for field := range s.createRules {
		if v, ok := input[field]; ok {
			data[field] = v
		}
	}
	if err := s.run(data, s.createRules, true); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateUpdate checks a partial patch against the update rules. Only keys
// present in the input are validated; unknown keys are stripped.
func (s *Schema) ValidateUpdate(input map[string]any) (map[string]any, error) {
	data := make(map[string]any)
	rules := make(map[string]string)
	for field, rule := range s.updateRules {
		if v, ok := input[field]; ok {
			data[field] = v
			rules[field] = rule
		}
	}
	if err := s.run(data, rules, false); err != nil {
		return nil, err
	}
	return data, nil
}

// run validates data against rules and converts failures into a
// ValidationError with one detail per failing field. checkMissing controls
// whether fields absent from data are still validated (required semantics).
func (s *Schema) run(data map[string]any, rules map[string]string, checkMissing bool) error {
	varRules := make(map[string]any, len(rules))
	for field, rule := range rules {
		if _, present := data[field]; !present && !checkMissing {
			continue
		}
		varRules[field] = rule
	}

	failures := s.validate.ValidateMap(data, varRules)
	if len(failures) == 0 {
		return nil
	}

	verr := &ValidationError{}
	fields := make([]string, 0, len(failures))
	for field := range failures {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		verr.Details = append(verr.Details, detailFor(field, failures[field]))
	}
	return verr
}

// optionalRule strips "required" from a rule and prefixes "omitempty" so the
// field validates only when present and non-zero.
func optionalRule(rule string) string {
	parts := strings.Split(rule, ",")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "required" || p == "omitempty" || p == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return "omitempty"
	}
	return "omitempty," + strings.Join(kept, ",")
}
