// Package filestore keeps uploaded audio on local disk. Files are written under
// a single data directory with generated names; the database holds the path.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
)

// Extension is appended to every stored file name.
const Extension = ".task"

// ErrNotFound is returned when a stored file no longer exists.
var ErrNotFound = errors.New("file not found")

// File is an open stored file.
type File struct {
	*os.File
	ModTime time.Time
	Size    int64
}

// Store writes and reads audio files in a data directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates the data directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger.With(slog.String("component", "filestore"))}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a new file named <uuid>.task and returns its path and
// size. A partially written file is removed on failure.
func (s *Store) Save(ctx context.Context, r io.Reader) (string, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	path := filepath.Join(s.dir, uuid.NewString()+Extension)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.remove(log, path)
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Debug("file stored", slog.String("path", path), slog.Int64("bytes", n))
	return path, n, nil
}

// Open opens a stored file for reading. It returns ErrNotFound when the file
// is missing at access time.
func (s *Store) Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return &File{File: f, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(ctx context.Context, path string) {
	s.remove(logger.FromContextOrDefault(ctx, s.logger), path)
}

func (s *Store) remove(log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to remove file", slog.String("path", path), slog.String("error", err.Error()))
	}
}
