package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erathia/careerdoc/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := Open(filepath.Join(t.TempDir(), "careerdoc.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleMetadata(path string) schema.FileMetadata {
	return schema.FileMetadata{
		FilePath:        path,
		FileName:        filepath.Base(path),
		ParentDirectory: filepath.Dir(path),
		Extension:       filepath.Ext(path),
		SizeBytes:       42,
		ModifiedAt:      time.Now(),
		FileHash:        "abc123",
	}
}

func TestUpsertFileMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertFileMetadata(ctx, sampleMetadata("/docs/resume.txt"))
	require.NoError(t, err)
	assert.Positive(t, id)

	meta := sampleMetadata("/docs/resume.txt")
	meta.FileHash = "def456"
	again, err := s.UpsertFileMetadata(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	hash, err := s.GetFileHash(ctx, "/docs/resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "def456", hash)
}

func TestGetFileHash_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetFileHash(context.Background(), "/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertContentAndChunks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fileID, err := s.UpsertFileMetadata(ctx, sampleMetadata("/docs/resume.txt"))
	require.NoError(t, err)

	content := &schema.ContentData{
		ContentText:      "Work experience at Acme.",
		ContentType:      "text",
		ExtractionMethod: "plaintext",
		ContentLength:    24,
		Language:         "en",
		DocumentType:     schema.ArchetypeResume,
		Properties:       map[string]string{"source": "test"},
	}
	contentID, err := s.InsertDocumentContent(ctx, fileID, content)
	require.NoError(t, err)
	assert.Positive(t, contentID)

	chunks := []schema.Chunk{
		{Text: "Work experience", Index: 0, Method: "section_based", Type: schema.ChunkTypeSection, Size: 15},
		{Text: "at Acme.", Index: 1, Method: "section_based", Type: schema.ChunkTypeSection, Size: 8,
			Metadata: map[string]string{"section_type": "experience"}},
	}
	records := make([]schema.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = schema.NewChunkRecord(c, contentID, fileID)
	}
	require.NoError(t, s.InsertChunks(ctx, records))

	stored, err := s.ChunksForFile(ctx, "/docs/resume.txt")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Work experience", stored[0].ChunkText)
	assert.Equal(t, 1, stored[1].ChunkIndex)
	assert.Equal(t, "experience", stored[1].Metadata["section_type"])
}

func TestInsertDocumentContent_ReplacesPrevious(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fileID, err := s.UpsertFileMetadata(ctx, sampleMetadata("/docs/resume.txt"))
	require.NoError(t, err)

	first, err := s.InsertDocumentContent(ctx, fileID, &schema.ContentData{ContentText: "v1"})
	require.NoError(t, err)
	require.NoError(t, s.InsertChunks(ctx, []schema.ChunkRecord{
		schema.NewChunkRecord(schema.Chunk{Text: "v1", Size: 2}, first, fileID),
	}))

	_, err = s.InsertDocumentContent(ctx, fileID, &schema.ContentData{ContentText: "v2"})
	require.NoError(t, err)

	// Old content cascades away, taking its chunks with it.
	stored, err := s.ChunksForFile(ctx, "/docs/resume.txt")
	require.NoError(t, err)
	assert.Empty(t, stored)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.StartSession(ctx, "session-1", "/docs"))
	require.NoError(t, s.FinishSession(ctx, SessionRecord{
		SessionID:      "session-1",
		FilesScanned:   3,
		FilesProcessed: 2,
		ChunksCreated:  10,
		ErrorCount:     1,
		Status:         "completed",
	}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
}

func TestStatsAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fileID, err := s.UpsertFileMetadata(ctx, sampleMetadata("/docs/a.txt"))
	require.NoError(t, err)
	contentID, err := s.InsertDocumentContent(ctx, fileID, &schema.ContentData{
		ContentText:  "hello",
		DocumentType: schema.ArchetypeCoverLetter,
	})
	require.NoError(t, err)
	require.NoError(t, s.InsertChunks(ctx, []schema.ChunkRecord{
		schema.NewChunkRecord(schema.Chunk{Text: "hello", Size: 5}, contentID, fileID),
	}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 1, stats.TotalChunks)
	assert.Equal(t, 1, stats.DocumentTypes[string(schema.ArchetypeCoverLetter)])

	require.NoError(t, s.Clear(ctx))
	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalFiles)
	assert.Zero(t, stats.TotalChunks)
	assert.Zero(t, stats.TotalSessions)
}
