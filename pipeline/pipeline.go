package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/erathia/careerdoc/chunker"
	"github.com/erathia/careerdoc/extract"
	"github.com/erathia/careerdoc/scanner"
	"github.com/erathia/careerdoc/schema"
	"github.com/erathia/careerdoc/store"
)

// Options controls one pipeline run.
type Options struct {
	Workers     int
	BatchSize   int
	DryRun      bool
	SkipContent bool
	SkipHash    bool
}

// Result summarizes a completed pipeline run.
type Result struct {
	SessionID      string `json:"session_id"`
	FilesScanned   int    `json:"files_scanned"`
	FilesProcessed int    `json:"files_processed"`
	FilesSkipped   int    `json:"files_skipped"`
	ChunksCreated  int    `json:"chunks_created"`
	ErrorCount     int    `json:"error_count"`
}

// Pipeline wires the scanner, extractors, chunking engine, and store into
// one scan-and-process run over a directory tree.
type Pipeline struct {
	logger    *slog.Logger
	scanner   *scanner.Scanner
	registry  *extract.Registry
	chunker   *chunker.Chunker
	store    *store.Store
	opts     Options

	mu     sync.Mutex
	result Result
}

// New assembles a pipeline. The store may be nil only when opts.DryRun is
// set.
func New(logger *slog.Logger, s *store.Store, opts Options) (*Pipeline, error) {
	if s == nil && !opts.DryRun {
		return nil, errors.New("pipeline requires a store unless running dry")
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	registry, err := extract.RegisterDefaultExtractors(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor registry: %w", err)
	}

	engine, err := chunker.New(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build chunking engine: %w", err)
	}

	return &Pipeline{
		logger:   logger,
		scanner:  scanner.New(logger, scanner.WithSkipHash(opts.SkipHash)),
		registry: registry,
		chunker:  engine,
		store:    s,
		opts:     opts,
	}, nil
}

// WithChunker replaces the default chunking engine, for callers that tuned
// the size bounds.
func (p *Pipeline) WithChunker(engine *chunker.Chunker) *Pipeline {
	p.chunker = engine
	return p
}

// Run scans dir and processes every extractable file through the chunking
// engine into the store. Individual file failures are logged and counted;
// only scan-level or store-session failures abort the run.
func (p *Pipeline) Run(ctx context.Context, dir string) (Result, error) {
	sessionID := uuid.NewString()
	p.mu.Lock()
	p.result = Result{SessionID: sessionID}
	p.mu.Unlock()

	p.logger.Info("starting processing run",
		"session_id", sessionID, "directory", dir,
		"workers", p.opts.Workers, "dry_run", p.opts.DryRun)

	if !p.opts.DryRun {
		if err := p.store.StartSession(ctx, sessionID, dir); err != nil {
			return Result{}, err
		}
	}

	files := make(chan schema.FileMetadata, p.opts.Workers*2)
	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < p.opts.Workers; i++ {
		group.Go(func() error {
			for meta := range files {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				p.processFile(groupCtx, meta)
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(files)
		return p.scanner.Scan(dir, func(meta schema.FileMetadata) error {
			p.countScanned()
			select {
			case files <- meta:
				return nil
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		})
	})

	runErr := group.Wait()

	result := p.snapshot()
	if !p.opts.DryRun {
		status := "completed"
		if runErr != nil {
			status = "failed"
		}
		if err := p.store.FinishSession(ctx, store.SessionRecord{
			SessionID:      sessionID,
			FilesScanned:   result.FilesScanned,
			FilesProcessed: result.FilesProcessed,
			ChunksCreated:  result.ChunksCreated,
			ErrorCount:     result.ErrorCount,
			Status:         status,
		}); err != nil {
			p.logger.Error("failed to record session result", "error", err)
		}
	}
	if runErr != nil {
		return result, fmt.Errorf("processing run failed: %w", runErr)
	}

	p.logger.Info("processing run finished",
		"session_id", sessionID,
		"files_scanned", result.FilesScanned,
		"files_processed", result.FilesProcessed,
		"files_skipped", result.FilesSkipped,
		"chunks_created", result.ChunksCreated,
		"errors", result.ErrorCount)
	return result, nil
}

// processFile runs one file end to end. Failures are absorbed into the
// error counter so one bad document never aborts the run.
func (p *Pipeline) processFile(ctx context.Context, meta schema.FileMetadata) {
	logger := p.logger.With("path", meta.FilePath)

	if p.opts.DryRun {
		logger.Info("dry run, would process file", "size_bytes", meta.SizeBytes)
		p.countSkipped()
		return
	}

	if meta.FileHash != "" {
		stored, err := p.store.GetFileHash(ctx, meta.FilePath)
		if err == nil && stored == meta.FileHash {
			logger.Debug("file unchanged, skipping")
			p.countSkipped()
			return
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.Warn("failed to check stored hash", "error", err)
		}
	}

	fileID, err := p.store.UpsertFileMetadata(ctx, meta)
	if err != nil {
		logger.Error("failed to store file metadata", "error", err)
		p.countError()
		return
	}

	if p.opts.SkipContent || !p.registry.ShouldExtract(meta) {
		p.countSkipped()
		return
	}

	chunksStored, err := p.extractAndChunk(ctx, meta, fileID)
	if err != nil {
		logger.Error("failed to process file content", "error", err)
		p.countError()
		return
	}
	p.countProcessed(chunksStored)
	logger.Debug("processed file", "chunks", chunksStored)
}

// extractAndChunk extracts text, classifies it, chunks it, and stores the
// content row plus its chunk batch.
func (p *Pipeline) extractAndChunk(ctx context.Context, meta schema.FileMetadata, fileID int64) (int, error) {
	extractor, err := p.registry.ForFile(meta.FilePath, nil)
	if err != nil {
		return 0, err
	}

	content, err := extractor.Extract(meta.FilePath)
	if err != nil {
		return 0, fmt.Errorf("extraction failed: %w", err)
	}
	content.DocumentType = chunker.DetectArchetype(content.ContentText, meta.FileName)

	chunks, err := p.chunker.ChunkDocument(content.ContentText, meta.FileName)
	if err != nil {
		if errors.Is(err, chunker.ErrEmptyInput) {
			return 0, nil
		}
		return 0, fmt.Errorf("chunking failed: %w", err)
	}

	contentID, err := p.store.InsertDocumentContent(ctx, fileID, content)
	if err != nil {
		return 0, err
	}

	records := make([]schema.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = schema.NewChunkRecord(chunk, contentID, fileID)
	}
	for start := 0; start < len(records); start += p.opts.BatchSize {
		end := start + p.opts.BatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := p.store.InsertChunks(ctx, records[start:end]); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

func (p *Pipeline) snapshot() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

func (p *Pipeline) countScanned() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result.FilesScanned++
}

func (p *Pipeline) countProcessed(chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result.FilesProcessed++
	p.result.ChunksCreated += chunks
}

func (p *Pipeline) countSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result.FilesSkipped++
}

func (p *Pipeline) countError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result.ErrorCount++
}
