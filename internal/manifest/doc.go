// Package manifest holds the ordered resource sequence a package renders to
// and the helpers that decode, normalize, encode and redact it.
package manifest
