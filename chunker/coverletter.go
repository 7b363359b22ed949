package chunker

import (
	"strconv"
	"strings"

	"github.com/erathia/careerdoc/schema"
)

// segmentCoverLetter splits strictly on blank-line-delimited paragraphs,
// one segment each. Paragraphs below the minimum size are kept rather than
// discarded here: the post-processor decides whether they merge into a
// neighbor, the same treatment every other strategy's output gets.
func (c *Chunker) segmentCoverLetter(text string, _ StructureIndex) []segment {
	paragraphs := blockSeparator.Split(strings.TrimSpace(text), -1)

	var segments []segment
	pos := 0
	for i, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		seg := newSegment(text, paragraph, methodParagraphBased, schema.ChunkTypeParagraph, pos)
		seg.annotate("paragraph_index", strconv.Itoa(i))
		pos = seg.end
		segments = append(segments, seg)
	}

	return segments
}
