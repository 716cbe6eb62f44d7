// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed activities.json
var bundled []byte

// LoadRegistry reads a registry file; an empty path returns the bundled registry.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data := bundled
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Default returns the bundled registry. It panics only if the embedded file is corrupt.
func Default() *ActivityRegistry {
	reg, err := LoadRegistry("")
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *ActivityRegistry) ByTaskType(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// InputSchema returns the input schema for a task type, or a permissive object
// schema when the task type is not registered.
func (r *ActivityRegistry) InputSchema(taskType string) map[string]interface{} {
	if a, ok := r.ByTaskType(taskType); ok && a.InputSchema != nil {
		return a.InputSchema
	}
	return map[string]interface{}{"type": "object"}
}
