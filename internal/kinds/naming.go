package kinds

import (
	"regexp"
	"strings"
)

var (
	upperFollowedByLower  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerOrNumBeforeUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// domainSuffix is stripped from API groups when deriving facade names.
const domainSuffix = ".k8s.io"

// FacadeName derives the API facade identifier for a group and version:
// the ".k8s.io" suffix is dropped, dot-separated segments are title-cased
// and joined, and the title-cased version is appended. The core group
// becomes "Core".
//
//	("", "v1")                          -> "CoreV1"
//	("apps", "v1")                      -> "AppsV1"
//	("rbac.authorization.k8s.io", "v1") -> "RbacAuthorizationV1"
func FacadeName(group, version string) string {
	if group == "" {
		group = "core"
	}
	if i := strings.LastIndex(group, domainSuffix); i >= 0 {
		group = group[:i] + group[i+len(domainSuffix):]
	}

	var b strings.Builder
	for _, segment := range strings.Split(group, ".") {
		b.WriteString(titleCase(segment))
	}
	b.WriteString(titleCase(version))
	return b.String()
}

// SnakeCase converts an upper-camel-case kind to its lower, underscore
// separated form in two passes, so acronyms stay together:
// "APIService" -> "api_service", "PodDisruptionBudget" -> "pod_disruption_budget".
func SnakeCase(kind string) string {
	s := upperFollowedByLower.ReplaceAllString(kind, "${1}_${2}")
	s = lowerOrNumBeforeUpper.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// MethodName returns the per-kind method identifier for an operation verb,
// e.g. ("create", "Deployment", true) -> "create_namespaced_deployment".
func MethodName(verb, kind string, namespaced bool) string {
	if namespaced {
		return verb + "_namespaced_" + SnakeCase(kind)
	}
	return verb + "_" + SnakeCase(kind)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
