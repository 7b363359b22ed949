package chunker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erathia/careerdoc/schema"
)

var (
	// ErrEmptyInput is returned when the document text is empty or contains
	// only whitespace. Callers treat it as a per-document skip, not a fault.
	ErrEmptyInput = errors.New("document text is empty or whitespace only")

	// ErrInvalidConfiguration is returned by New when the size bounds
	// violate min < target <= max.
	ErrInvalidConfiguration = errors.New("invalid chunking configuration")
)

// Chunker partitions extracted document text into bounded-size, ordered
// chunks. It is a pure transformation: one call, one document, one result.
// A single Chunker is safe for concurrent use; the only shared state is the
// statistics accumulator, which carries its own lock.
type Chunker struct {
	logger     *slog.Logger
	opts       schema.ChunkingOptions
	stats      *Stats
	strategies map[schema.Archetype]strategyFunc
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkingOptions replaces the size bounds wholesale.
func WithChunkingOptions(opts schema.ChunkingOptions) Option {
	return func(c *Chunker) {
		c.opts = opts
	}
}

// WithTargetChunkSize sets the preferred chunk size in characters.
func WithTargetChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.opts.TargetChunkSize = size
		}
	}
}

// WithMaxChunkSize sets the hard upper bound in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.opts.MaxChunkSize = size
		}
	}
}

// WithMinChunkSize sets the merge threshold in characters.
func WithMinChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.opts.MinChunkSize = size
		}
	}
}

// WithStats attaches a shared statistics accumulator. Without it the
// Chunker keeps its own private accumulator.
func WithStats(stats *Stats) Option {
	return func(c *Chunker) {
		if stats != nil {
			c.stats = stats
		}
	}
}

// New creates a Chunker with validated size bounds and the full strategy
// dispatch table. Every archetype must have a strategy; a missing entry is
// a programming error caught here rather than at chunking time.
func New(logger *slog.Logger, options ...Option) (*Chunker, error) {
	c := &Chunker{
		logger: logger,
		opts:   schema.DefaultChunkingOptions(),
		stats:  NewStats(),
	}

	for _, opt := range options {
		opt(c)
	}

	if err := c.opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	c.strategies = map[schema.Archetype]strategyFunc{
		schema.ArchetypeResume:         (*Chunker).segmentResume,
		schema.ArchetypeJobDescription: (*Chunker).segmentJobDescription,
		schema.ArchetypeCoverLetter:    (*Chunker).segmentCoverLetter,
		schema.ArchetypeGeneric:        (*Chunker).segmentGeneric,
	}
	for _, archetype := range schema.Archetypes() {
		if _, ok := c.strategies[archetype]; !ok {
			return nil, fmt.Errorf("no segmentation strategy registered for archetype %q", archetype)
		}
	}

	return c, nil
}

// Options returns the size bounds the Chunker was built with.
func (c *Chunker) Options() schema.ChunkingOptions {
	return c.opts
}

// Stats returns the statistics accumulator.
func (c *Chunker) Stats() *Stats {
	return c.stats
}

// ChunkDocument turns normalized document text into an ordered list of
// chunks. The filename hint is optional and only biases archetype
// detection. No failure inside segmentation or post-processing escapes:
// an unexpected panic is logged and yields an empty list so a caller's
// batch loop survives a single bad document.
func (c *Chunker) ChunkDocument(text, filenameHint string) (chunks []schema.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("chunking panicked, returning no chunks",
				"filename_hint", filenameHint, "panic", r)
			chunks = []schema.Chunk{}
			err = nil
		}
	}()

	if strings.TrimSpace(text) == "" {
		c.logger.Warn("empty or whitespace-only document", "filename_hint", filenameHint)
		return []schema.Chunk{}, ErrEmptyInput
	}

	normalized := NormalizeMarkdown(text)
	structure := ExtractStructure(normalized)
	archetype := DetectArchetype(normalized, filenameHint)

	c.logger.Debug("chunking document",
		"filename_hint", filenameHint,
		"archetype", archetype,
		"content_length", len(normalized),
		"headers", len(structure.Headers()))

	segments := c.strategies[archetype](c, normalized, structure)
	segments = c.postProcess(segments)
	chunks = c.assemble(segments, normalized, archetype)

	c.stats.Record(chunks)

	c.logger.Debug("chunking completed",
		"filename_hint", filenameHint, "chunks_created", len(chunks))
	return chunks, nil
}
