// Package logging configures the process-wide logr logger used through
// controller-runtime's log package.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Format selects the log encoder.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures the logger.
type Options struct {
	// Verbosity 0 logs info and above; each step enables one more V level.
	Verbosity int
	Format    Format
	Output    io.Writer
}

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatConsole, "text":
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (expected console or json)", s)
	}
}

// New builds a logger without installing it.
func New(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	verbosity := opts.Verbosity
	if verbosity < 0 {
		verbosity = 0
	}

	zapOpts := []zap.Opts{
		zap.WriteTo(out),
		zap.Level(zapcore.Level(-verbosity)),
	}
	if opts.Format == FormatJSON {
		zapOpts = append(zapOpts, zap.UseDevMode(false), zap.JSONEncoder())
	} else {
		zapOpts = append(zapOpts, zap.UseDevMode(true), zap.ConsoleEncoder())
	}
	return zap.New(zapOpts...)
}

var (
	initOnce sync.Once
	global   logr.Logger
)

// Init installs the logger globally on the first call and returns it.
// Later calls return the installed logger and ignore opts.
func Init(opts Options) logr.Logger {
	initOnce.Do(func() {
		global = New(opts)
		ctrllog.SetLogger(global)
	})
	return global
}
