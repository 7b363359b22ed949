package chunker

import (
	"strings"

	"github.com/erathia/careerdoc/schema"
)

// Chunk method provenance tags. The oversize splitter appends "_split" to
// whichever method produced the parent segment.
const (
	methodHeaderBased    = "header_based"
	methodContentBased   = "content_based"
	methodSectionBased   = "section_based"
	methodParagraphBased = "paragraph_based"

	splitMethodSuffix = "_split"
)

// segment is a provisional, not-yet-size-normalized piece of text produced
// by a segmentation strategy.
type segment struct {
	text      string
	method    string
	chunkType schema.ChunkType
	start     int
	end       int
	metadata  map[string]string
}

// strategyFunc turns normalized text plus its structural index into an
// ordered list of raw segments. One strategy exists per archetype; the
// dispatch table is fixed at construction.
type strategyFunc func(c *Chunker, text string, structure StructureIndex) []segment

// newSegment trims the text and records best-effort offsets by searching
// the source forward from searchFrom. When the trimmed text cannot be
// located (a joined or rewritten segment), the running position is used as
// an approximation.
func newSegment(source, text, method string, chunkType schema.ChunkType, searchFrom int) segment {
	trimmed := strings.TrimSpace(text)
	start := searchFrom
	if idx := strings.Index(source[min(searchFrom, len(source)):], trimmed); idx >= 0 {
		start = searchFrom + idx
	}
	return segment{
		text:      trimmed,
		method:    method,
		chunkType: chunkType,
		start:     start,
		end:       start + len(trimmed),
	}
}

func (s *segment) annotate(key, value string) {
	if s.metadata == nil {
		s.metadata = make(map[string]string)
	}
	s.metadata[key] = value
}
