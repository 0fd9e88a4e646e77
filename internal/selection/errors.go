package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCyclicDependency is matched by every *CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDuplicateTool is returned when the same id is declared twice.
	ErrDuplicateTool = errors.New("duplicate tool")
)

// CyclicDependencyError reports a requirement cycle found while building a
// graph. Path starts and ends with the same id, e.g. [a b c a].
type CyclicDependencyError struct {
	Path []ToolID
}

func (e *CyclicDependencyError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Path) == 0 {
		return ErrCyclicDependency.Error()
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(parts, " -> "))
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}
