package chunker

import (
	"strings"

	"github.com/erathia/careerdoc/schema"
)

// classifierThreshold is the minimum keyword score for a non-generic
// archetype to win; anything below falls back to generic.
const classifierThreshold = 3

// filenameHintBonus is added once when the lowercased filename contains any
// of an archetype's name hints.
const filenameHintBonus = 3

// archetypeKeywords maps each non-generic archetype to the phrases whose
// presence (case-insensitive substring, counted once each) scores it.
var archetypeKeywords = map[schema.Archetype][]string{
	schema.ArchetypeResume: {
		"work experience", "professional experience", "employment history",
		"education", "skills", "certifications", "curriculum vitae",
		"career objective", "professional summary", "references available",
		"achievements", "linkedin",
	},
	schema.ArchetypeJobDescription: {
		"responsibilities", "qualifications", "requirements",
		"we are looking for", "about the role", "about this role",
		"what you will do", "benefits", "salary range",
		"the ideal candidate", "equal opportunity", "how to apply",
	},
	schema.ArchetypeCoverLetter: {
		"dear hiring manager", "dear sir or madam", "i am writing",
		"i am excited to apply", "thank you for your consideration",
		"i look forward to", "sincerely", "best regards",
		"my enclosed resume", "the advertised position",
	},
}

// archetypeFilenameHints maps archetypes to the lowercase substrings that
// earn the filename bonus.
var archetypeFilenameHints = map[schema.Archetype][]string{
	schema.ArchetypeResume:         {"resume", "cv"},
	schema.ArchetypeJobDescription: {"job", "posting", "description"},
	schema.ArchetypeCoverLetter:    {"cover", "letter"},
}

// classifierPrecedence breaks score ties: earlier entries win.
var classifierPrecedence = []schema.Archetype{
	schema.ArchetypeResume,
	schema.ArchetypeJobDescription,
	schema.ArchetypeCoverLetter,
}

// DetectArchetype scores the text and filename hint against each
// archetype's keyword set and returns the best match, or generic when no
// score reaches the threshold. The result is deterministic and purely
// advisory: it claims keyword density, not semantic accuracy.
func DetectArchetype(text, filenameHint string) schema.Archetype {
	lowerText := strings.ToLower(text)
	lowerName := strings.ToLower(filenameHint)

	best := schema.ArchetypeGeneric
	bestScore := 0

	for _, archetype := range classifierPrecedence {
		score := 0
		for _, keyword := range archetypeKeywords[archetype] {
			if strings.Contains(lowerText, keyword) {
				score++
			}
		}
		if lowerName != "" {
			for _, hint := range archetypeFilenameHints[archetype] {
				if strings.Contains(lowerName, hint) {
					score += filenameHintBonus
					break
				}
			}
		}
		// Strictly greater keeps precedence order on ties.
		if score > bestScore {
			best = archetype
			bestScore = score
		}
	}

	if bestScore < classifierThreshold {
		return schema.ArchetypeGeneric
	}
	return best
}
