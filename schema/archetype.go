package schema

// Archetype is the detected document category that drives strategy
// selection. The set is closed: adding a category means adding a strategy
// to the dispatch table, which the chunker checks at construction time.
type Archetype string

const (
	ArchetypeResume         Archetype = "resume"
	ArchetypeJobDescription Archetype = "job_description"
	ArchetypeCoverLetter    Archetype = "cover_letter"
	ArchetypeGeneric        Archetype = "generic"
)

// Archetypes lists every known archetype in classifier precedence order.
func Archetypes() []Archetype {
	return []Archetype{
		ArchetypeResume,
		ArchetypeJobDescription,
		ArchetypeCoverLetter,
		ArchetypeGeneric,
	}
}

func (a Archetype) String() string {
	return string(a)
}
