package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/erathia/careerdoc/schema"
)

// maxHashableSize caps content hashing; larger files get an empty hash.
const maxHashableSize = 100 * 1024 * 1024

// Scanner walks a directory tree and yields file metadata records.
type Scanner struct {
	logger   *slog.Logger
	skipHash bool

	excludedDirs map[string]struct{}
	excludedExts map[string]struct{}

	mu    sync.Mutex
	stats ScanStats
}

// ScanStats counts what a scan saw.
type ScanStats struct {
	TotalFiles       int   `json:"total_files"`
	TotalDirectories int   `json:"total_directories"`
	TotalSizeBytes   int64 `json:"total_size_bytes"`
	ErrorCount       int   `json:"error_count"`
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSkipHash disables content hashing for faster scans.
func WithSkipHash(skip bool) Option {
	return func(s *Scanner) {
		s.skipHash = skip
	}
}

// WithExcludedDirs replaces the directory-name exclusion set.
func WithExcludedDirs(names ...string) Option {
	return func(s *Scanner) {
		s.excludedDirs = make(map[string]struct{}, len(names))
		for _, name := range names {
			s.excludedDirs[name] = struct{}{}
		}
	}
}

// New creates a Scanner with the default exclusion sets.
func New(logger *slog.Logger, options ...Option) *Scanner {
	s := &Scanner{
		logger: logger,
		excludedDirs: map[string]struct{}{
			"__pycache__": {}, ".git": {}, ".DS_Store": {}, "node_modules": {},
		},
		excludedExts: map[string]struct{}{
			".tmp": {}, ".cache": {},
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Scan walks the directory tree rooted at dir and invokes yield for every
// entry that survives the exclusion sets. Per-entry errors are counted and
// logged but do not stop the walk; an unreadable root is fatal.
func (s *Scanner) Scan(dir string, yield func(schema.FileMetadata) error) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve scan directory %s: %w", dir, err)
	}

	s.logger.Info("starting directory scan", "directory", root)

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.recordError()
			s.logger.Warn("failed to access path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if _, excluded := s.excludedDirs[entry.Name()]; excluded && path != root {
				return filepath.SkipDir
			}
			if path != root {
				s.recordDirectory()
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, excluded := s.excludedExts[ext]; excluded {
			return nil
		}

		meta, err := s.extractMetadata(path, entry)
		if err != nil {
			s.recordError()
			s.logger.Warn("failed to extract file metadata", "path", path, "error", err)
			return nil
		}
		s.recordFile(meta.SizeBytes)

		return yield(meta)
	})
	if walkErr != nil {
		return fmt.Errorf("directory scan failed: %w", walkErr)
	}

	stats := s.Stats()
	s.logger.Info("directory scan finished",
		"files", stats.TotalFiles,
		"directories", stats.TotalDirectories,
		"total_size_bytes", stats.TotalSizeBytes,
		"errors", stats.ErrorCount)
	return nil
}

// extractMetadata builds one metadata record for a regular file.
func (s *Scanner) extractMetadata(path string, entry fs.DirEntry) (schema.FileMetadata, error) {
	info, err := entry.Info()
	if err != nil {
		return schema.FileMetadata{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	meta := schema.FileMetadata{
		FilePath:        path,
		FileName:        filepath.Base(path),
		ParentDirectory: filepath.Dir(path),
		Extension:       filepath.Ext(path),
		SizeBytes:       info.Size(),
		ModifiedAt:      info.ModTime(),
		IsDirectory:     false,
	}

	if !s.skipHash && info.Size() <= maxHashableSize {
		hash, err := hashFile(path)
		if err != nil {
			s.logger.Warn("failed to hash file", "path", path, "error", err)
		} else {
			meta.FileHash = hash
		}
	}

	return meta, nil
}

// Stats returns a copy of the running scan counters.
func (s *Scanner) Stats() ScanStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Reset zeroes the scan counters.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = ScanStats{}
}

func (s *Scanner) recordFile(size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalFiles++
	s.stats.TotalSizeBytes += size
}

func (s *Scanner) recordDirectory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalDirectories++
}

func (s *Scanner) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.ErrorCount++
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
