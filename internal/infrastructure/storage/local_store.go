package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/shared"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var _ billingapp.ReportFileStore = (*LocalReportStore)(nil)

// LocalReportStore writes report files below a root directory.
// Recorded paths are slash separated and relative to the root.
type LocalReportStore struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewLocalReportStore creates a store rooted at dir on the OS filesystem
func NewLocalReportStore(dir string, logger *zap.Logger) (*LocalReportStore, error) {
	if dir == "" {
		return nil, errors.New("storage local dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return NewLocalReportStoreOnFs(afero.NewBasePathFs(osFs, abs), logger), nil
}

// NewLocalReportStoreOnFs creates a store on an existing filesystem, e.g. afero.NewMemMapFs()
func NewLocalReportStoreOnFs(fsys afero.Fs, logger *zap.Logger) *LocalReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalReportStore{fs: fsys, logger: logger}
}

// Put writes data to key, replacing any previous file atomically
func (s *LocalReportStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", key, err)
	}

	tmp := name + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, name); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", key, err)
	}

	s.logger.Debug("Report file written", zap.String("path", name), zap.Int("bytes", len(data)))
	return filepath.ToSlash(name), nil
}

// Open opens the file recorded at path. A missing file wraps shared.ErrNotFound.
func (s *LocalReportStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	name, err := cleanKey(path)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("report file %s: %w", path, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// cleanKey rejects keys that would escape the root
func cleanKey(key string) (string, error) {
	name := filepath.Clean(filepath.FromSlash(key))
	if key == "" || !filepath.IsLocal(name) {
		return "", shared.NewDomainError("INVALID_STORAGE_KEY", fmt.Sprintf("invalid storage key %q", key))
	}
	return name, nil
}
