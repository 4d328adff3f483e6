// Package retry retries an operation with capped exponential backoff.
//
// It is used for pre-flight probes (waiting for an API server to answer)
// and never inside the installer engine, which fails fast by contract.
package retry
