package chunker

import (
	"regexp"
	"strings"

	"github.com/erathia/careerdoc/schema"
)

var blockSeparator = regexp.MustCompile(`\n\s*\n`)

// segmentGeneric splits at header lines; when the document has no real
// header structure it falls back to packing blank-line-delimited content
// blocks up to the configured sizes.
func (c *Chunker) segmentGeneric(text string, structure StructureIndex) []segment {
	if pieces := splitByHeaders(text, structure); len(pieces) >= 2 {
		segments := make([]segment, 0, len(pieces))
		pos := 0
		for _, piece := range pieces {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			seg := newSegment(text, piece, methodHeaderBased, schema.ChunkTypeSection, pos)
			pos = seg.end
			segments = append(segments, seg)
		}
		return segments
	}

	return c.segmentContentBlocks(text)
}

// segmentJobDescription handles job postings. They vary too much in layout
// for a dedicated section matcher, so structural headers are the only
// signal and the content-block fallback covers the rest.
func (c *Chunker) segmentJobDescription(text string, structure StructureIndex) []segment {
	return c.segmentGeneric(text, structure)
}

// splitByHeaders cuts the text at every header line; the header line opens
// its segment, and text preceding the first header forms a leading segment.
func splitByHeaders(text string, structure StructureIndex) []string {
	if len(structure.Headers()) == 0 {
		return []string{text}
	}

	var pieces []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		if _, _, ok := parseHeaderLine(strings.TrimSpace(line)); ok {
			if len(current) > 0 {
				pieces = append(pieces, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, "\n"))
	}

	return pieces
}

// segmentContentBlocks splits on blank-line-delimited blocks and greedily
// packs consecutive blocks into a segment. A segment closes either before a
// block that would push it past the max size, or right after the
// accumulated size reaches the target.
func (c *Chunker) segmentContentBlocks(text string) []segment {
	blocks := blockSeparator.Split(strings.TrimSpace(text), -1)

	var segments []segment
	var current []string
	currentSize := 0
	pos := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		seg := newSegment(text, strings.Join(current, "\n\n"), methodContentBased, schema.ChunkTypeContent, pos)
		pos = seg.end
		segments = append(segments, seg)
		current = nil
		currentSize = 0
	}

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if currentSize+len(block) > c.opts.MaxChunkSize {
			flush()
		}

		current = append(current, block)
		currentSize += len(block) + 2 // account for the joining blank line

		if currentSize >= c.opts.TargetChunkSize {
			flush()
		}
	}
	flush()

	return segments
}
