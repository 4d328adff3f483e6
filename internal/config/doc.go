// Package config loads kpkg.yaml, the file that names a package instance,
// where its manifests come from, and how it is installed.
//
// Values are read from YAML, defaulted, then overridden by KPKG_*
// environment variables. Credentials are only taken from the environment.
package config
