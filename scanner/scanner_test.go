package scanner

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erathia/careerdoc/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, s *Scanner, dir string) []schema.FileMetadata {
	t.Helper()
	var got []schema.FileMetadata
	require.NoError(t, s.Scan(dir, func(meta schema.FileMetadata) error {
		got = append(got, meta)
		return nil
	}))
	return got
}

func TestScan_CollectsFileMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "resume.txt"), "hello world")
	writeFile(t, filepath.Join(dir, "docs", "letter.md"), "dear team")

	s := New(testLogger())
	got := collect(t, s, dir)
	require.Len(t, got, 2)

	byName := make(map[string]schema.FileMetadata, len(got))
	for _, meta := range got {
		byName[meta.FileName] = meta
	}

	resume, ok := byName["resume.txt"]
	require.True(t, ok)
	assert.Equal(t, ".txt", resume.Extension)
	assert.Equal(t, int64(len("hello world")), resume.SizeBytes)
	assert.False(t, resume.IsDirectory)
	assert.Len(t, resume.FileHash, 64)

	letter, ok := byName["letter.md"]
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "docs"), letter.ParentDirectory)

	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 1, stats.TotalDirectories)
	assert.Equal(t, 0, stats.ErrorCount)
}

func TestScan_SkipsExcludedDirsAndExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(dir, ".git", "config"), "gitstuff")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "js")
	writeFile(t, filepath.Join(dir, "scratch.tmp"), "tmp")

	s := New(testLogger())
	got := collect(t, s, dir)

	require.Len(t, got, 1)
	assert.Equal(t, "keep.txt", got[0].FileName)
}

func TestScan_SkipHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "content")

	s := New(testLogger(), WithSkipHash(true))
	got := collect(t, s, dir)

	require.Len(t, got, 1)
	assert.Empty(t, got[0].FileHash)
}

func TestScan_DeterministicHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "same bytes")
	writeFile(t, filepath.Join(dir, "b.txt"), "same bytes")

	s := New(testLogger())
	got := collect(t, s, dir)

	require.Len(t, got, 2)
	assert.Equal(t, got[0].FileHash, got[1].FileHash)
}

func TestScan_Reset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "x")

	s := New(testLogger())
	collect(t, s, dir)
	require.Equal(t, 1, s.Stats().TotalFiles)

	s.Reset()
	assert.Equal(t, ScanStats{}, s.Stats())
}
