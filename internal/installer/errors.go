package installer

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/resolver"
)

// ErrAppNotFound is returned by Upgrade when nothing of the instance exists
// and creation was not allowed.
var ErrAppNotFound = errors.New("application not found")

// InstallError reports the resource an install stopped at.
type InstallError struct {
	// Manifest is the input manifest that failed.
	Manifest *unstructured.Unstructured
	// Index is the position of Manifest in the sequence.
	Index int
	// Op is the verb that failed.
	Op  resolver.Operation
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install %s (index %d, %s): %v", manifest.RefOf(e.Manifest), e.Index, e.Op, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// DeleteError reports a resource that could not be removed.
type DeleteError struct {
	Resource manifest.Ref
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Resource, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
