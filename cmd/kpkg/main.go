// Package main is the entry point for the kpkg CLI.
//
// kpkg installs, upgrades, discovers and removes packages: named,
// versioned sets of Kubernetes manifests deployed as one unit. A package
// instance is described by kpkg.yaml.
//
// For detailed usage information, run:
//
//	kpkg --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/kpkg/cmd/kpkg/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// The first interrupt cancels the running operation; the tracking log
	// is still stored.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
