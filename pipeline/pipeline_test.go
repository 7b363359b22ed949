package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erathia/careerdoc/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "pipeline.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const resumeDoc = `# Jane Doe

Contact: jane@example.com

## Work Experience

Senior engineer at Acme for five years. Led the storage team and shipped
the replication rewrite that cut recovery time in half.

## Education

BSc Computer Science, State University.

## Skills

Go, SQL, distributed systems, technical writing.
`

func TestRun_ProcessesDirectory(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeDoc(t, dir, "jane_doe_resume.md", resumeDoc)
	writeDoc(t, dir, "notes.txt", "The meeting covered the plan for the next quarter and the open hires.")
	writeDoc(t, dir, "binary.exe", "\x00\x01\x02")

	s := newTestStore(t)
	p, err := New(testLogger(), s, Options{Workers: 2})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilesScanned)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Zero(t, result.ErrorCount)
	assert.Positive(t, result.ChunksCreated)
	assert.NotEmpty(t, result.SessionID)

	chunks, err := s.ChunksForFile(context.Background(), resumePath)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, "resume", chunk.Metadata["document_type"])
	}

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 1, stats.TotalSessions)
}

func TestRun_SkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "letter.txt", "Dear hiring manager, I am excited to apply for the role at your company.")

	s := newTestStore(t)
	p, err := New(testLogger(), s, Options{Workers: 1})
	require.NoError(t, err)

	first, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.FilesProcessed)

	second, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, second.FilesProcessed)
	assert.Equal(t, 1, second.FilesSkipped)
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "resume.txt", "Work experience and education and skills all in one line of text.")

	p, err := New(testLogger(), nil, Options{Workers: 1, DryRun: true})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Zero(t, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
}

func TestRun_SkipContentStoresMetadataOnly(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "resume.txt", "Some resume text that would normally be chunked.")

	s := newTestStore(t)
	p, err := New(testLogger(), s, Options{Workers: 1, SkipContent: true})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, result.ChunksCreated)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Zero(t, stats.TotalDocuments)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(testLogger(), nil, Options{})
	assert.Error(t, err)
}
