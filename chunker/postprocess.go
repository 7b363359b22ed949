package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// metadataDegenerateSplit flags a chunk whose text is a single indivisible
// unit larger than the max size; it is kept whole rather than truncated.
const metadataDegenerateSplit = "degenerate_split"

// postProcess is a single left-to-right pass over the strategy output.
// Undersized segments try to merge into the previously accepted segment;
// oversized segments go through the sentence splitter; everything else is
// accepted unchanged. Nothing that reaches this pass is dropped.
func (c *Chunker) postProcess(segments []segment) []segment {
	if len(segments) == 0 {
		return segments
	}

	accepted := make([]segment, 0, len(segments))

	for _, seg := range segments {
		size := len(seg.text)

		if size < c.opts.MinChunkSize {
			if c.mergeIntoLast(accepted, seg) {
				continue
			}
			// Unmergeable undersized content is kept as-is; dropping it
			// would silently lose text.
			accepted = append(accepted, seg)
			continue
		}

		if size > c.opts.MaxChunkSize {
			accepted = append(accepted, c.splitOversized(seg)...)
			continue
		}

		accepted = append(accepted, seg)
	}

	return accepted
}

// mergeIntoLast appends the candidate onto the last accepted segment when
// that segment is still below the target size and the merged text stays
// within the max. Reports whether the merge happened.
func (c *Chunker) mergeIntoLast(accepted []segment, candidate segment) bool {
	if len(accepted) == 0 {
		return false
	}
	last := &accepted[len(accepted)-1]
	if len(last.text) >= c.opts.TargetChunkSize {
		return false
	}
	merged := last.text + "\n\n" + candidate.text
	if len(merged) > c.opts.MaxChunkSize {
		return false
	}

	last.text = merged
	last.end = candidate.end
	return true
}

// splitOversized breaks a segment along sentence boundaries, greedily
// accumulating sentences up to the max size. A single sentence that alone
// exceeds the max is emitted whole and flagged, never truncated. The
// resulting method carries the "_split" suffix; the chunk type is
// inherited from the parent.
func (c *Chunker) splitOversized(seg segment) []segment {
	sentences := splitSentences(seg.text)
	if len(sentences) == 0 {
		return []segment{seg}
	}

	var subs []segment
	var current []string
	currentSize := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		subs = append(subs, c.newSubSegment(seg, strings.Join(current, " ")))
		current = nil
		currentSize = 0
	}

	for _, sentence := range sentences {
		if currentSize+len(sentence) > c.opts.MaxChunkSize && len(current) > 0 {
			flush()
		}
		current = append(current, sentence)
		currentSize += len(sentence) + 1
	}
	flush()

	if len(subs) == 0 {
		return []segment{seg}
	}

	for i := range subs {
		if len(subs[i].text) > c.opts.MaxChunkSize {
			c.logger.Warn("sentence exceeds max chunk size, keeping whole",
				"size", len(subs[i].text), "max", c.opts.MaxChunkSize)
			subs[i].annotate(metadataDegenerateSplit, "true")
		}
	}

	return subs
}

// newSubSegment derives a split piece from its parent, keeping the parent's
// chunk type and start offset as a position approximation.
func (c *Chunker) newSubSegment(parent segment, text string) segment {
	sub := segment{
		text:      strings.TrimSpace(text),
		method:    parent.method + splitMethodSuffix,
		chunkType: parent.chunkType,
		start:     parent.start,
		end:       parent.start + len(text),
	}
	for k, v := range parent.metadata {
		sub.annotate(k, v)
	}
	return sub
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)

// splitSentences breaks text after '.', '!' or '?' followed by whitespace.
// The punctuation stays with its sentence; the separating whitespace is
// dropped. This is a heuristic, not a linguistic sentence detector.
func splitSentences(text string) []string {
	var sentences []string
	last := 0

	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		end := loc[0]
		for end < loc[1] && !unicode.IsSpace(rune(text[end])) {
			end++
		}
		if s := strings.TrimSpace(text[last:end]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
