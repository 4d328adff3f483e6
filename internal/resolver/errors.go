package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperation is matched by every *UnsupportedOperationError.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// UnsupportedOperationError reports that no method exists for a kind and
// operation. Tried lists the method names that were looked up.
type UnsupportedOperationError struct {
	Kind  string
	Op    Operation
	Tried []string
}

func (e *UnsupportedOperationError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("unsupported operation %s for kind %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("unsupported operation %s for kind %s (tried %s)", e.Op, e.Kind, strings.Join(e.Tried, ", "))
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}
