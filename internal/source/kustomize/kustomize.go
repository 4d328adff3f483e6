// Package kustomize builds a kustomization in-process with krusty.
package kustomize

import (
	"context"
	"fmt"

	"sigs.k8s.io/kustomize/api/krusty"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/kpkg/internal/manifest"
)

// Source renders the kustomization rooted at a directory.
type Source struct {
	path string
	fs   filesys.FileSystem
}

// New returns a source for the kustomization in path on the local disk.
func New(path string) (*Source, error) {
	return NewWithFileSystem(filesys.MakeFsOnDisk(), path)
}

// NewWithFileSystem returns a source reading from fs.
func NewWithFileSystem(fs filesys.FileSystem, path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("kustomization path is required")
	}
	if !fs.IsDir(path) {
		return nil, fmt.Errorf("kustomization path %s is not a directory", path)
	}
	return &Source{path: path, fs: fs}, nil
}

// Render runs the build. Output uses kustomize's legacy order, which puts
// namespaces and cluster-wide kinds first.
func (s *Source) Render(ctx context.Context) (manifest.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := krusty.MakeDefaultOptions()
	opts.Reorder = krusty.ReorderOptionLegacy
	k := krusty.MakeKustomizer(opts)
	resMap, err := k.Run(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to build kustomization %s: %w", s.path, err)
	}

	data, err := resMap.AsYaml()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kustomization %s: %w", s.path, err)
	}

	return manifest.Decode(data)
}
