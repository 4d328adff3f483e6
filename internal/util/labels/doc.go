// Package labels derives the label set and selector that identify the
// resources of one package instance.
//
// Keys follow the app.kubernetes.io recommended labels, plus a kpkg.io
// fingerprint label combining package name and version.
package labels
