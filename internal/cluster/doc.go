// Package cluster is the transport between the installer and a Kubernetes
// API server.
//
// It wraps k8s.io/client-go's dynamic client so any registered kind can be
// created, read, listed, patched and deleted through one code path. Calls
// return an Outcome that distinguishes Found from NotFound; only failures
// other than 404 surface as errors, as *StatusError when the server
// answered with a status. Create and patch have no NotFound outcome: a 404
// there is a *StatusError with Code 404.
package cluster
