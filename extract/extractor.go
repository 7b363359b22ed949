package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/erathia/careerdoc/schema"
)

// ErrExtractorNotFound is returned when no extractor handles a file.
var ErrExtractorNotFound = errors.New("content extractor not found")

// maxExtractableSize caps content extraction; larger files are skipped.
const maxExtractableSize = 50 * 1024 * 1024

// excludedExtensions are never extracted even though they may be text.
var excludedExtensions = map[string]struct{}{
	".tmp": {}, ".log": {}, ".cache": {},
}

// Extractor converts one file format into decoded UTF-8 text for the
// chunking engine.
type Extractor interface {
	Name() string
	Extensions() []string
	CanHandle(path string, info fs.FileInfo) bool
	Extract(path string) (*schema.ContentData, error)
}

// Registry tracks registered content extractors and routes files to them.
type Registry struct {
	extractors map[string]Extractor
	extensions map[string]Extractor
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewRegistry creates an empty extractor registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		extensions: make(map[string]Extractor),
		logger:     logger,
	}
}

// RegisterDefaultExtractors builds a registry with every built-in format.
func RegisterDefaultExtractors(logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry(logger)

	factories := map[string]func(*slog.Logger) Extractor{
		"text":     NewTextExtractor,
		"markdown": NewMarkdownExtractor,
		"pdf":      NewPDFExtractor,
	}

	for name, factory := range factories {
		extractor := factory(logger.With("extractor", name))
		if err := registry.Register(extractor); err != nil {
			return nil, fmt.Errorf("failed to register extractor %s: %w", name, err)
		}
	}

	logger.Info("content extractors registered", "count", len(registry.All()))
	return registry, nil
}

// Register adds an extractor under its name and extensions.
func (r *Registry) Register(extractor Extractor) error {
	if extractor == nil {
		return errors.New("cannot register nil extractor")
	}
	name := extractor.Name()
	if name == "" {
		return errors.New("extractor must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extractors[name]; exists {
		return fmt.Errorf("extractor %q already registered", name)
	}
	r.extractors[name] = extractor

	for _, ext := range extractor.Extensions() {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		r.extensions[ext] = extractor
	}

	r.logger.Debug("registered content extractor", "name", name, "extensions", extractor.Extensions())
	return nil
}

// ForFile returns the extractor responsible for the given path.
func (r *Registry) ForFile(path string, info fs.FileInfo) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext != "" {
		if extractor, ok := r.extensions[ext]; ok {
			return extractor, nil
		}
	}
	for _, extractor := range r.extractors {
		if extractor.CanHandle(path, info) {
			return extractor, nil
		}
	}
	return nil, fmt.Errorf("%w for file %s", ErrExtractorNotFound, path)
}

// All returns every registered extractor.
func (r *Registry) All() []Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Extractor, 0, len(r.extractors))
	for _, e := range r.extractors {
		out = append(out, e)
	}
	return out
}

// ShouldExtract reports whether content extraction applies to the file:
// not a directory, a supported extension, not excluded, and within the
// size cap.
func (r *Registry) ShouldExtract(meta schema.FileMetadata) bool {
	if meta.IsDirectory {
		return false
	}

	ext := strings.ToLower(meta.Extension)
	if _, excluded := excludedExtensions[ext]; excluded {
		return false
	}

	r.mu.RLock()
	_, supported := r.extensions[ext]
	r.mu.RUnlock()
	if !supported {
		r.logger.Debug("unsupported file type for content extraction", "path", meta.FilePath)
		return false
	}

	if meta.SizeBytes > maxExtractableSize {
		r.logger.Debug("file too large for content extraction",
			"path", meta.FilePath, "size_bytes", meta.SizeBytes)
		return false
	}

	return true
}
