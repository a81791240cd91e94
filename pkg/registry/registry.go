// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed activities.json
var defaultRegistry []byte

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return parse(defaultRegistry)
}

// LoadOrDefault prefers the file at path and falls back to the compiled-in
// registry when the file does not exist.
func LoadOrDefault(path string) (*ActivityRegistry, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadRegistry(path)
		}
	}
	return Default()
}

// Save writes the registry as indented JSON, creating the directory if needed.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal activity registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write activity registry: %w", err)
	}
	return nil
}

// Check reports every structural problem in the registry: missing fields,
// duplicate IDs or task types, and input schemas that do not compile.
func (r *ActivityRegistry) Check() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	var errs []error
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))
	for i, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("activity %d: missing id", i))
		} else if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate activity id %q", a.ID))
		}
		ids[a.ID] = true

		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q: missing taskType", a.ID))
		} else if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("duplicate taskType %q", a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if a.DisplayName == "" {
			errs = append(errs, fmt.Errorf("activity %q: missing displayName", a.ID))
		}
		if a.Category == "" {
			errs = append(errs, fmt.Errorf("activity %q: missing category", a.ID))
		}
	}

	if _, err := NewValidator(r); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}
