package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/kpkg/internal/pkgdef"
)

// ErrNotFound is returned by Load when no log is stored under a key.
var ErrNotFound = errors.New("tracking log not found")

// Store persists logs by key.
type Store interface {
	Save(ctx context.Context, key string, log *Log) error
	Load(ctx context.Context, key string) (*Log, error)
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key of a package instance.
func Key(id pkgdef.Identity) string {
	return path.Join(id.Namespace, id.Name, id.Instance+".yaml")
}

// FileStore keeps logs as files below a directory.
type FileStore struct {
	dir string
	fs  filesys.FileSystem
}

// NewFileStore returns a store rooted at dir on the local disk.
func NewFileStore(dir string) *FileStore {
	return NewFileStoreWithFileSystem(filesys.MakeFsOnDisk(), dir)
}

// NewFileStoreWithFileSystem returns a store rooted at dir in fs.
func NewFileStoreWithFileSystem(fs filesys.FileSystem, dir string) *FileStore {
	return &FileStore{dir: dir, fs: fs}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

// Save writes log under key, creating directories as needed.
func (s *FileStore) Save(ctx context.Context, key string, log *Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := log.Marshal()
	if err != nil {
		return err
	}
	p := s.path(key)
	if err := s.fs.MkdirAll(filepath.Dir(p)); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
	}
	if err := s.fs.WriteFile(p, data); err != nil {
		return fmt.Errorf("failed to write tracking log %s: %w", p, err)
	}
	return nil
}

// Load reads the log stored under key.
func (s *FileStore) Load(ctx context.Context, key string) (*Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.path(key)
	if !s.fs.Exists(p) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	data, err := s.fs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracking log %s: %w", p, err)
	}
	return Unmarshal(data)
}

// Delete removes the log stored under key. A missing log is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := s.path(key)
	if !s.fs.Exists(p) {
		return nil
	}
	if err := s.fs.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to delete tracking log %s: %w", p, err)
	}
	return nil
}

// OpenStore builds a store from a location: a directory path, a file://
// URL, or an s3://bucket/prefix URL.
func OpenStore(ctx context.Context, location string, s3opts S3Options) (Store, error) {
	if location == "" {
		return nil, fmt.Errorf("tracking store location is required")
	}
	if !strings.Contains(location, "://") {
		return NewFileStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid tracking store location %q: %w", location, err)
	}

	switch u.Scheme {
	case "file":
		return NewFileStore(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("tracking store %q names no bucket", location)
		}
		s3opts.Bucket = u.Host
		s3opts.Prefix = strings.Trim(u.Path, "/")
		return NewS3Store(ctx, s3opts)
	default:
		return nil, fmt.Errorf("unsupported tracking store scheme %q", u.Scheme)
	}
}
