package chunker

import (
	"regexp"
	"strings"

	"github.com/erathia/careerdoc/schema"
)

// resumeSectionPattern pairs a canonical section name with the line pattern
// that detects its title. The table is declarative so individual patterns
// stay testable outside the splitting loop; order matters only for
// readability, since each line matches at most one pattern in practice.
type resumeSectionPattern struct {
	name    string
	pattern *regexp.Regexp
}

var resumeSectionPatterns = []resumeSectionPattern{
	{"contact", regexp.MustCompile(`(?i)^\s*(contact(\s+(information|details))?|personal\s+(information|details))\s*$`)},
	{"objective", regexp.MustCompile(`(?i)^\s*((career\s+)?objective|(professional\s+)?summary|profile)\s*$`)},
	{"experience", regexp.MustCompile(`(?i)^\s*((work|professional)\s+)?(experience|employment(\s+history)?|work\s+history)\s*$`)},
	{"education", regexp.MustCompile(`(?i)^\s*education(\s+(and|&)\s+training)?\s*$`)},
	{"skills", regexp.MustCompile(`(?i)^\s*((technical|key|core)\s+)?(skills|competencies)\s*$`)},
	{"projects", regexp.MustCompile(`(?i)^\s*((personal|selected|notable)\s+)?projects\s*$`)},
	{"achievements", regexp.MustCompile(`(?i)^\s*(achievements|accomplishments|awards(\s+(and|&)\s+honors)?|honors)\s*$`)},
	{"certifications", regexp.MustCompile(`(?i)^\s*(certifications?|licenses?(\s+(and|&)\s+certifications?)?)\s*$`)},
}

// segmentResume scans lines and keeps a current-section label. A line that
// matches a section title closes the accumulated segment under the previous
// label and opens a new one. Content preceding the first detected section
// is tagged as the resume header. Sections are kept whole because a query
// about one section should not retrieve another's text.
func (c *Chunker) segmentResume(text string, _ StructureIndex) []segment {
	var segments []segment
	var current []string
	currentLabel := string(schema.ChunkTypeHeader)
	pos := 0

	closeSection := func() {
		body := strings.TrimSpace(strings.Join(current, "\n"))
		if body == "" {
			current = nil
			return
		}
		seg := newSegment(text, body, methodSectionBased, schema.ChunkType(currentLabel), pos)
		seg.annotate("section_type", currentLabel)
		pos = seg.end
		segments = append(segments, seg)
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := matchResumeSection(line); ok {
			closeSection()
			currentLabel = name
			current = append(current, line)
			continue
		}
		current = append(current, line)
	}
	closeSection()

	return segments
}

// matchResumeSection reports whether the line is a section title. Markdown
// header markers are stripped first so "# Experience" and "Experience"
// both match.
func matchResumeSection(line string) (string, bool) {
	candidate := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	if candidate == "" {
		return "", false
	}
	for _, sp := range resumeSectionPatterns {
		if sp.pattern.MatchString(candidate) {
			return sp.name, true
		}
	}
	return "", false
}
