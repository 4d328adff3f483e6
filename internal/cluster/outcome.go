package cluster

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Status tells whether the addressed object existed. Create and patch
// never report NotFound.
type Status int

const (
	// Found means the call reached an existing object (or listed a kind).
	Found Status = iota
	// NotFound means the server answered 404: the object, or the kind
	// itself, does not exist.
	NotFound
)

func (s Status) String() string {
	switch s {
	case Found:
		return "Found"
	case NotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of a successful round-trip.
type Outcome struct {
	Status Status
	// Object is the server representation for get, create and patch.
	Object *unstructured.Unstructured
	// Items holds list results.
	Items []unstructured.Unstructured
}

// IsNotFound reports whether the outcome is NotFound.
func (o Outcome) IsNotFound() bool {
	return o.Status == NotFound
}

// StatusError is a failure the API server answered with a status other
// than 404.
type StatusError struct {
	// Verb is the operation that failed ("create", "list", ...).
	Verb    string
	Code    int32
	Reason  metav1.StatusReason
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %d (%s): %s", e.Verb, e.Code, e.Reason, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status code from err, or 0.
func StatusCode(err error) int32 {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var st apierrors.APIStatus
	if errors.As(err, &st) {
		return st.Status().Code
	}
	return 0
}

// classify turns a client error into an Outcome or a typed error.
func classify(verb string, err error) (Outcome, error) {
	if apierrors.IsNotFound(err) {
		return Outcome{Status: NotFound}, nil
	}
	return Outcome{}, statusError(verb, err)
}

// statusError wraps err as *StatusError when the server answered with a
// status. Create and patch use it directly: a 404 there means the target
// namespace or kind is missing.
func statusError(verb string, err error) error {
	var st apierrors.APIStatus
	if errors.As(err, &st) {
		status := st.Status()
		return &StatusError{
			Verb:    verb,
			Code:    status.Code,
			Reason:  status.Reason,
			Message: status.Message,
			Err:     err,
		}
	}
	return fmt.Errorf("%s failed: %w", verb, err)
}
