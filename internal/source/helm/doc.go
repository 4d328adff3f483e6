// Package helm renders Helm charts in-process into an ordered manifest
// sequence. Charts come from a local directory or archive, an HTTP(S)
// repository, or an OCI registry. Nothing is installed through Helm; the
// rendered objects are handed to the installer like any other source.
package helm
