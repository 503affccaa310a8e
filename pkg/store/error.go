package store

import (
	"fmt"

	"github.com/papercomputeco/switchboard/pkg/tool"
)

// NotFoundError is returned when a provider or preset lookup misses.
type NotFoundError struct {
	Tool tool.Tool
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found for %s", e.Kind, e.Key, e.Tool)
}

// NameConflictError is returned when a name is already taken within a
// tool's store.
type NameConflictError struct {
	Tool tool.Tool
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("a provider named %q already exists for %s", e.Name, e.Tool)
}
