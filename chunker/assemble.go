package chunker

import (
	"strings"

	"github.com/erathia/careerdoc/schema"
)

// assemble stamps final sequential indices, recomputes every size from the
// text, and attaches archetype provenance. This is the only step allowed
// to assign Index and Size, so stale values from earlier passes can never
// leak into the result.
func (c *Chunker) assemble(segments []segment, source string, archetype schema.Archetype) []schema.Chunk {
	chunks := make([]schema.Chunk, 0, len(segments))
	searchFrom := 0

	for _, seg := range segments {
		text := strings.TrimSpace(seg.text)
		if text == "" {
			continue
		}

		start, end := seg.start, seg.end
		// Merges and splits rewrite segment text, so the recorded offsets
		// can drift. Re-locate the text where possible; the fallback keeps
		// the strategy's approximation.
		if idx := strings.Index(source[min(searchFrom, len(source)):], text); idx >= 0 {
			start = searchFrom + idx
			end = start + len(text)
		}
		searchFrom = end

		chunk := schema.Chunk{
			Text:          text,
			Index:         len(chunks),
			Method:        seg.method,
			Type:          seg.chunkType,
			StartPosition: start,
			EndPosition:   end,
			Size:          len(text),
			Metadata:      seg.metadata,
		}
		chunk.Annotate("document_type", archetype.String())
		chunks = append(chunks, chunk)
	}

	return chunks
}
