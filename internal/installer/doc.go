// Package installer applies, discovers and removes package instances.
//
// The Engine is strictly sequential. Install walks a normalized sequence
// and performs get-or-create-or-patch for every resource, recording each
// server answer in a caller-owned tracking.Log. Revert walks that log
// backwards and deletes. Uninstall finds the instance by its label
// selector and deletes what it found in reverse order.
package installer
