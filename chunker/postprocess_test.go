package chunker

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erathia/careerdoc/schema"
)

func newBareChunker(t *testing.T, target, max, min int) *Chunker {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := New(logger,
		WithTargetChunkSize(target),
		WithMaxChunkSize(max),
		WithMinChunkSize(min))
	require.NoError(t, err)
	return c
}

func TestPostProcess_MergeRule(t *testing.T) {
	c := newBareChunker(t, 200, 500, 50)

	segs := []segment{
		{text: strings.Repeat("a", 30), method: methodContentBased, chunkType: schema.ChunkTypeContent},
		{text: strings.Repeat("b", 40), method: methodContentBased, chunkType: schema.ChunkTypeContent},
	}

	out := c.postProcess(segs)
	require.Len(t, out, 1)
	assert.Equal(t, 72, len(out[0].text)) // 30 + "\n\n" + 40
}

func TestPostProcess_NoMergeWhenPreviousAtTarget(t *testing.T) {
	c := newBareChunker(t, 200, 500, 50)

	segs := []segment{
		{text: strings.Repeat("a", 250)}, // already past target
		{text: strings.Repeat("b", 20)},  // undersized
	}

	out := c.postProcess(segs)
	require.Len(t, out, 2)
	assert.Equal(t, 20, len(out[1].text), "undersized segment is kept, never dropped")
}

func TestPostProcess_NoMergePastMax(t *testing.T) {
	c := newBareChunker(t, 480, 500, 50)

	segs := []segment{
		{text: strings.Repeat("a", 470)},
		{text: strings.Repeat("b", 40)}, // merged would be 512 > max
	}

	out := c.postProcess(segs)
	require.Len(t, out, 2)
}

func TestPostProcess_SplitsOversized(t *testing.T) {
	c := newBareChunker(t, 50, 100, 10)

	sentence := "This sentence is about forty characters. "
	seg := segment{
		text:      strings.TrimSpace(strings.Repeat(sentence, 6)),
		method:    methodHeaderBased,
		chunkType: schema.ChunkTypeSection,
	}

	out := c.postProcess([]segment{seg})
	require.Greater(t, len(out), 1)
	for _, sub := range out {
		assert.LessOrEqual(t, len(sub.text), 100)
		assert.Equal(t, "header_based_split", sub.method)
		assert.Equal(t, schema.ChunkTypeSection, sub.chunkType)
	}
}

func TestSplitOversized_SingleLongSentence(t *testing.T) {
	c := newBareChunker(t, 50, 100, 10)

	seg := segment{text: strings.Repeat("x", 300), method: methodContentBased}
	out := c.splitOversized(seg)
	require.Len(t, out, 1)
	assert.Equal(t, 300, len(out[0].text))
	assert.Equal(t, "true", out[0].metadata[metadataDegenerateSplit])
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "periods",
			input:    "First sentence. Second sentence. Third.",
			expected: []string{"First sentence.", "Second sentence.", "Third."},
		},
		{
			name:     "mixed punctuation",
			input:    "Really?! Yes. Go now!",
			expected: []string{"Really?!", "Yes.", "Go now!"},
		},
		{
			name:     "no boundary",
			input:    "no terminal punctuation here",
			expected: []string{"no terminal punctuation here"},
		},
		{
			name:     "newline separator",
			input:    "One line.\nNext line.",
			expected: []string{"One line.", "Next line."},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitSentences(tt.input))
		})
	}
}
