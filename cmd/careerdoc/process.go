package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erathia/careerdoc/chunker"
	"github.com/erathia/careerdoc/pipeline"
	"github.com/erathia/careerdoc/store"
)

var processFlags struct {
	directory    string
	batchSize    int
	workers      int
	dryRun       bool
	skipHash     bool
	skipContent  bool
	createSchema bool
	chunkSize    int
	maxChunkSize int
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Scan a directory and chunk its documents into the database",
	RunE:  runProcess,
}

func init() {
	flags := processCmd.Flags()
	flags.StringVarP(&processFlags.directory, "directory", "d", "", "directory to scan (defaults to CAREERDOC_DIR)")
	flags.IntVarP(&processFlags.batchSize, "batch-size", "b", 0, "chunk insert batch size")
	flags.IntVar(&processFlags.workers, "workers", 0, "number of concurrent file workers")
	flags.BoolVar(&processFlags.dryRun, "dry-run", false, "scan and report without writing to the database")
	flags.BoolVar(&processFlags.skipHash, "skip-hash", false, "skip content hashing (disables change detection)")
	flags.BoolVar(&processFlags.skipContent, "skip-content", false, "store file metadata only, no extraction or chunking")
	flags.BoolVar(&processFlags.createSchema, "create-schema", false, "create the database schema and exit")
	flags.IntVar(&processFlags.chunkSize, "chunk-size", 0, "target chunk size in characters")
	flags.IntVar(&processFlags.maxChunkSize, "max-chunk-size", 0, "maximum chunk size in characters")
}

func runProcess(cmd *cobra.Command, args []string) error {
	applyProcessFlags()

	var db *store.Store
	if !processFlags.dryRun {
		var err error
		db, err = store.Open(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if processFlags.createSchema {
			logger.Info("database schema created", "path", cfg.DatabasePath)
			return nil
		}
	} else if processFlags.createSchema {
		return fmt.Errorf("--create-schema cannot be combined with --dry-run")
	}

	engine, err := chunker.New(logger,
		chunker.WithTargetChunkSize(cfg.TargetChunkSize),
		chunker.WithMaxChunkSize(cfg.MaxChunkSize),
		chunker.WithMinChunkSize(cfg.MinChunkSize),
	)
	if err != nil {
		return err
	}

	p, err := pipeline.New(logger, db, pipeline.Options{
		Workers:     cfg.Workers,
		BatchSize:   cfg.BatchSize,
		DryRun:      processFlags.dryRun,
		SkipContent: processFlags.skipContent,
		SkipHash:    processFlags.skipHash,
	})
	if err != nil {
		return err
	}
	p.WithChunker(engine)

	result, err := p.Run(cmd.Context(), cfg.ScanDir)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", result.SessionID)
	fmt.Printf("  files scanned:   %d\n", result.FilesScanned)
	fmt.Printf("  files processed: %d\n", result.FilesProcessed)
	fmt.Printf("  files skipped:   %d\n", result.FilesSkipped)
	fmt.Printf("  chunks created:  %d\n", result.ChunksCreated)
	fmt.Printf("  errors:          %d\n", result.ErrorCount)
	return nil
}

// applyProcessFlags folds explicit flags over the environment config.
func applyProcessFlags() {
	if processFlags.directory != "" {
		cfg.ScanDir = processFlags.directory
	}
	if processFlags.batchSize > 0 {
		cfg.BatchSize = processFlags.batchSize
	}
	if processFlags.workers > 0 {
		cfg.Workers = processFlags.workers
	}
	if processFlags.chunkSize > 0 {
		cfg.TargetChunkSize = processFlags.chunkSize
	}
	if processFlags.maxChunkSize > 0 {
		cfg.MaxChunkSize = processFlags.maxChunkSize
	}
	cfg.SkipHash = processFlags.skipHash
	cfg.DryRun = processFlags.dryRun
}
