// Package tracking records the resources an install applied, in order, so
// a failed install can be unwound later without asking the cluster.
//
// A Log is built in memory by the installer. Stores persist it between
// invocations as a YAML v1 List, on local disk or in an S3 bucket.
package tracking
