package labels

import (
	"fmt"
	"sort"
	"strings"

	k8slabels "k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Standard label keys stamped on every installed resource.
const (
	// KeyName is the package name
	KeyName = "app.kubernetes.io/name"

	// KeyInstance is the instance name, unique per install of a package
	KeyInstance = "app.kubernetes.io/instance"

	// KeyVersion is the package version
	KeyVersion = "app.kubernetes.io/version"

	// KeyManagedBy identifies the managing tool
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyPackage is the "<name>-<version>" fingerprint
	KeyPackage = "kpkg.io/package"
)

// ManagedByKpkg is the managed-by value set on everything kpkg installs.
const ManagedByKpkg = "kpkg.io"

// LabelBuilder provides a fluent interface for building package labels.
type LabelBuilder struct {
	name   string
	labels map[string]string
}

// NewLabelBuilder creates a builder with name, instance and managed-by set.
func NewLabelBuilder(name, instance string) *LabelBuilder {
	return &LabelBuilder{
		name: name,
		labels: map[string]string{
			KeyName:      name,
			KeyInstance:  instance,
			KeyManagedBy: ManagedByKpkg,
		},
	}
}

// WithVersion sets the version label and the package fingerprint.
func (lb *LabelBuilder) WithVersion(version string) *LabelBuilder {
	if version == "" {
		return lb
	}
	lb.labels[KeyVersion] = version
	lb.labels[KeyPackage] = Fingerprint(lb.name, version)
	return lb
}

// WithManagedBy overrides the managed-by value.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from extra. Identity keys are not overwritten.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		if isIdentityKey(k) {
			continue
		}
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the discovery selector for the builder's identity. It
// leaves out the version so older installs of the same instance match.
func (lb *LabelBuilder) Selector() string {
	return Selector(lb.labels[KeyName], lb.labels[KeyInstance], lb.labels[KeyManagedBy])
}

// Fingerprint returns the package fingerprint label value.
func Fingerprint(name, version string) string {
	return name + "-" + version
}

// Selector renders the equality selector for a package instance. Keys are
// sorted, so equal inputs always give byte-identical output.
func Selector(name, instance, managedBy string) string {
	return k8slabels.SelectorFromSet(k8slabels.Set{
		KeyName:      name,
		KeyInstance:  instance,
		KeyManagedBy: managedBy,
	}).String()
}

// Validate checks every key and value against the Kubernetes label syntax.
func Validate(set map[string]string) error {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, k := range keys {
		for _, msg := range validation.IsQualifiedName(k) {
			problems = append(problems, fmt.Sprintf("key %q: %s", k, msg))
		}
		for _, msg := range validation.IsValidLabelValue(set[k]) {
			problems = append(problems, fmt.Sprintf("value of %q: %s", k, msg))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid labels: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isIdentityKey(k string) bool {
	switch k {
	case KeyName, KeyInstance, KeyVersion, KeyManagedBy, KeyPackage:
		return true
	}
	return false
}
