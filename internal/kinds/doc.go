// Package kinds holds the static table of resource kinds the installer
// understands.
//
// Every supported kind has exactly one Descriptor carrying its API group,
// version, plural resource name and namespace scope. The table order is
// significant: discovery walks kinds in this order, and uninstall deletes in
// the reverse of it, so kinds that other resources live in (Namespace,
// ServiceAccount, ConfigMap) come before the workloads that use them.
//
// List pseudo-kinds (SecretList, RoleList, ...) are carried for manifest
// compatibility and resolve to their item kind; discovery skips them.
package kinds
