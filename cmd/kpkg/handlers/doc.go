// Package handlers implements the business logic of the kpkg commands.
//
// Each handler loads kpkg.yaml, builds the installer engine and the
// tracking store, and prints the result. Collaborators are created
// through package-level factory variables so tests can swap them.
package handlers
