package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchResumeSection(t *testing.T) {
	tests := []struct {
		line    string
		section string
		match   bool
	}{
		{"Experience", "experience", true},
		{"Work Experience", "experience", true},
		{"PROFESSIONAL EXPERIENCE", "experience", true},
		{"Employment History", "experience", true},
		{"# Experience", "experience", true},
		{"## Work History", "experience", true},
		{"Education", "education", true},
		{"Education and Training", "education", true},
		{"Skills", "skills", true},
		{"Technical Skills", "skills", true},
		{"Core Competencies", "skills", true},
		{"Objective", "objective", true},
		{"Career Objective", "objective", true},
		{"Professional Summary", "objective", true},
		{"Projects", "projects", true},
		{"Selected Projects", "projects", true},
		{"Achievements", "achievements", true},
		{"Awards and Honors", "achievements", true},
		{"Certifications", "certifications", true},
		{"Licenses and Certifications", "certifications", true},
		{"Contact Information", "contact", true},
		{"Personal Details", "contact", true},

		{"My experience at Acme was great", "", false},
		{"Education: BSc Computer Science", "", false},
		{"", "", false},
		{"Skills include Go and SQL", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			section, ok := matchResumeSection(tt.line)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.section, section)
			}
		})
	}
}

func TestSegmentResume_HeaderBeforeFirstSection(t *testing.T) {
	c := newBareChunker(t, 200, 500, 10)

	text := "Jane Doe\njane@example.com\nExperience\nBuilt things at Acme.\nEducation\nBSc CS."
	segs := c.segmentResume(text, StructureIndex{})

	assert.Len(t, segs, 3)
	assert.Equal(t, "header", string(segs[0].chunkType))
	assert.Equal(t, "experience", string(segs[1].chunkType))
	assert.Equal(t, "education", string(segs[2].chunkType))
	assert.Equal(t, "experience", segs[1].metadata["section_type"])
}
