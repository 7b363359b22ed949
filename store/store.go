package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/erathia/careerdoc/schema"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const driverName = "sqlite"

// Store persists scanned file metadata, extracted content, and the chunks
// produced from it in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency; SQLite wants a single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.CreateSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS file_metadata (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_path TEXT NOT NULL UNIQUE,
    file_name TEXT NOT NULL,
    parent_directory TEXT,
    extension TEXT,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    modified_at TIMESTAMP,
    file_hash TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_file_metadata_hash ON file_metadata(file_hash);
CREATE INDEX IF NOT EXISTS idx_file_metadata_extension ON file_metadata(extension);

CREATE TABLE IF NOT EXISTS document_content (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_metadata_id INTEGER NOT NULL,
    content_text TEXT NOT NULL,
    content_type TEXT,
    extraction_method TEXT,
    content_length INTEGER NOT NULL DEFAULT 0,
    language TEXT,
    title TEXT,
    document_type TEXT,
    properties TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (file_metadata_id) REFERENCES file_metadata(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_document_content_file ON document_content(file_metadata_id);
CREATE INDEX IF NOT EXISTS idx_document_content_type ON document_content(document_type);

CREATE TABLE IF NOT EXISTS content_chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_content_id INTEGER NOT NULL,
    file_metadata_id INTEGER NOT NULL,
    chunk_index INTEGER NOT NULL,
    chunk_text TEXT NOT NULL,
    chunk_size INTEGER NOT NULL,
    chunk_method TEXT,
    chunk_type TEXT,
    chunk_overlap INTEGER NOT NULL DEFAULT 0,
    start_position INTEGER NOT NULL DEFAULT 0,
    end_position INTEGER NOT NULL DEFAULT 0,
    metadata TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (document_content_id) REFERENCES document_content(id) ON DELETE CASCADE,
    FOREIGN KEY (file_metadata_id) REFERENCES file_metadata(id) ON DELETE CASCADE,
    UNIQUE(document_content_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_content_chunks_document ON content_chunks(document_content_id);
CREATE INDEX IF NOT EXISTS idx_content_chunks_file ON content_chunks(file_metadata_id);

CREATE TABLE IF NOT EXISTS scan_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL UNIQUE,
    directory TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    files_scanned INTEGER NOT NULL DEFAULT 0,
    files_processed INTEGER NOT NULL DEFAULT 0,
    chunks_created INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running'
);
`

// CreateSchema creates all tables and indexes if they do not exist yet.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// UpsertFileMetadata inserts or refreshes the record for meta.FilePath and
// returns its row id.
func (s *Store) UpsertFileMetadata(ctx context.Context, meta schema.FileMetadata) (int64, error) {
	query := `
		INSERT INTO file_metadata (file_path, file_name, parent_directory, extension,
		                           size_bytes, modified_at, file_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
		    file_name = excluded.file_name,
		    parent_directory = excluded.parent_directory,
		    extension = excluded.extension,
		    size_bytes = excluded.size_bytes,
		    modified_at = excluded.modified_at,
		    file_hash = excluded.file_hash,
		    updated_at = excluded.updated_at
	`
	now := time.Now()
	if _, err := s.db.ExecContext(ctx, query,
		meta.FilePath, meta.FileName, meta.ParentDirectory, meta.Extension,
		meta.SizeBytes, meta.ModifiedAt, meta.FileHash, now); err != nil {
		return 0, fmt.Errorf("failed to upsert file metadata for %s: %w", meta.FilePath, err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM file_metadata WHERE file_path = ?", meta.FilePath).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to read back file metadata id: %w", err)
	}
	return id, nil
}

// GetFileHash returns the stored content hash for a file path, or
// ErrNotFound when the path has never been recorded.
func (s *Store) GetFileHash(ctx context.Context, filePath string) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT file_hash FROM file_metadata WHERE file_path = ?", filePath).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query file hash: %w", err)
	}
	return hash.String, nil
}

// InsertDocumentContent stores one extracted document, replacing any
// previous content rows for the same file, and returns the new row id.
func (s *Store) InsertDocumentContent(ctx context.Context, fileMetadataID int64, content *schema.ContentData) (int64, error) {
	properties, err := json.Marshal(content.Properties)
	if err != nil {
		return 0, fmt.Errorf("failed to encode content properties: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_content WHERE file_metadata_id = ?", fileMetadataID); err != nil {
		return 0, fmt.Errorf("failed to delete stale content: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO document_content (file_metadata_id, content_text, content_type,
		                              extraction_method, content_length, language,
		                              title, document_type, properties)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fileMetadataID, content.ContentText, content.ContentType,
		content.ExtractionMethod, content.ContentLength, content.Language,
		content.Title, string(content.DocumentType), string(properties))
	if err != nil {
		return 0, fmt.Errorf("failed to insert document content: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit content insert: %w", err)
	}
	return id, nil
}

// InsertChunks stores a batch of chunk records in one transaction.
func (s *Store) InsertChunks(ctx context.Context, records []schema.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO content_chunks (document_content_id, file_metadata_id, chunk_index,
		                            chunk_text, chunk_size, chunk_method, chunk_type,
		                            chunk_overlap, start_position, end_position, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		metadata, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			record.DocumentContentID, record.FileMetadataID, record.ChunkIndex,
			record.ChunkText, record.ChunkSize, record.ChunkMethod, record.ChunkType,
			record.ChunkOverlap, record.StartPosition, record.EndPosition,
			string(metadata)); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", record.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk batch: %w", err)
	}
	s.logger.Debug("stored chunk batch", "chunks", len(records))
	return nil
}

// ChunksForFile returns the stored chunks for a file path ordered by index.
func (s *Store) ChunksForFile(ctx context.Context, filePath string) ([]schema.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.document_content_id, c.file_metadata_id, c.chunk_index, c.chunk_text,
		       c.chunk_size, c.chunk_method, c.chunk_type, c.chunk_overlap,
		       c.start_position, c.end_position, c.metadata
		FROM content_chunks c
		JOIN file_metadata f ON f.id = c.file_metadata_id
		WHERE f.file_path = ?
		ORDER BY c.chunk_index`, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var records []schema.ChunkRecord
	for rows.Next() {
		var record schema.ChunkRecord
		var metadata sql.NullString
		if err := rows.Scan(
			&record.DocumentContentID, &record.FileMetadataID, &record.ChunkIndex,
			&record.ChunkText, &record.ChunkSize, &record.ChunkMethod, &record.ChunkType,
			&record.ChunkOverlap, &record.StartPosition, &record.EndPosition,
			&metadata); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode chunk metadata: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SessionRecord describes one pipeline run.
type SessionRecord struct {
	SessionID      string
	Directory      string
	StartedAt      time.Time
	FinishedAt     time.Time
	FilesScanned   int
	FilesProcessed int
	ChunksCreated  int
	ErrorCount     int
	Status         string
}

// StartSession records the beginning of a pipeline run.
func (s *Store) StartSession(ctx context.Context, sessionID, directory string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_sessions (session_id, directory, started_at, status)
		VALUES (?, ?, ?, 'running')`,
		sessionID, directory, time.Now())
	if err != nil {
		return fmt.Errorf("failed to start scan session: %w", err)
	}
	return nil
}

// FinishSession closes out a pipeline run with its final counters.
func (s *Store) FinishSession(ctx context.Context, record SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scan_sessions
		SET finished_at = ?, files_scanned = ?, files_processed = ?,
		    chunks_created = ?, error_count = ?, status = ?
		WHERE session_id = ?`,
		time.Now(), record.FilesScanned, record.FilesProcessed,
		record.ChunksCreated, record.ErrorCount, record.Status, record.SessionID)
	if err != nil {
		return fmt.Errorf("failed to finish scan session: %w", err)
	}
	return nil
}

// ContentStats summarizes what the store currently holds.
type ContentStats struct {
	TotalFiles     int            `json:"total_files"`
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	TotalSessions  int            `json:"total_sessions"`
	DocumentTypes  map[string]int `json:"document_types"`
}

// Stats computes aggregate counts across all tables.
func (s *Store) Stats(ctx context.Context) (ContentStats, error) {
	stats := ContentStats{DocumentTypes: make(map[string]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM file_metadata", &stats.TotalFiles},
		{"SELECT COUNT(*) FROM document_content", &stats.TotalDocuments},
		{"SELECT COUNT(*) FROM content_chunks", &stats.TotalChunks},
		{"SELECT COUNT(*) FROM scan_sessions", &stats.TotalSessions},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return ContentStats{}, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_type, COUNT(*)
		FROM document_content
		WHERE document_type IS NOT NULL AND document_type != ''
		GROUP BY document_type`)
	if err != nil {
		return ContentStats{}, fmt.Errorf("failed to count document types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docType string
		var count int
		if err := rows.Scan(&docType, &count); err != nil {
			return ContentStats{}, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.DocumentTypes[docType] = count
	}
	return stats, rows.Err()
}

// Clear removes all stored data. Chunks and content cascade from
// file_metadata; sessions are truncated explicitly.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"file_metadata", "scan_sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	s.logger.Info("cleared all stored content")
	return nil
}
