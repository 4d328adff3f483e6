// Package resolver maps a (kind, operation) pair to a callable against the
// cluster transport.
//
// The mapping is a static dispatch table keyed by API facade ("AppsV1",
// "RbacAuthorizationV1") and method name ("create_namespaced_deployment",
// "delete_cluster_role"). It is built once from a kinds.Registry and
// validated before use, so a missing (kind, operation) entry is reported at
// start rather than at first call. Lookups try the namespaced method first
// and fall back to the cluster-scoped form.
package resolver
