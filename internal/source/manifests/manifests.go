// Package manifests reads plain manifest files and directories.
package manifests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/kpkg/internal/manifest"
)

var extensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// Source reads manifests from files and directories. Files are taken in
// the order given; directories are walked in lexical order.
type Source struct {
	paths []string
	fs    filesys.FileSystem
}

// New returns a source reading paths from the local disk.
func New(paths ...string) (*Source, error) {
	return NewWithFileSystem(filesys.MakeFsOnDisk(), paths...)
}

// NewWithFileSystem returns a source reading from fs.
func NewWithFileSystem(fs filesys.FileSystem, paths ...string) (*Source, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one manifest path is required")
	}
	for _, p := range paths {
		if !fs.Exists(p) {
			return nil, fmt.Errorf("manifest path %s does not exist", p)
		}
	}
	return &Source{paths: paths, fs: fs}, nil
}

// Render reads and decodes every file.
func (s *Source) Render(ctx context.Context) (manifest.Sequence, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	var seq manifest.Sequence
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.fs.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		items, err := manifest.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		seq = append(seq, items...)
	}
	return seq, nil
}

func (s *Source) files() ([]string, error) {
	var out []string
	for _, p := range s.paths {
		if !s.fs.IsDir(p) {
			out = append(out, p)
			continue
		}
		err := s.fs.Walk(p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if extensions[strings.ToLower(filepath.Ext(path))] {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return out, nil
}
