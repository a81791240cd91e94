// pkg/registry/validator.go
package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks job variables against the input schema of their activity.
// Schemas are compiled once.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the input schema of every activity that declares one.
func NewValidator(reg *ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// Validate returns the schema violations for variables, or nil when they are
// valid or the task type has no schema.
func (v *Validator) Validate(taskType string, variables []byte) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil, nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(variables))
	if err != nil {
		return nil, fmt.Errorf("validate %s variables: %w", taskType, err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	return violations, nil
}
