package models

import "time"

// Tier controls sentence complexity for repeat sightings.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Complexity summarizes the length of the sentences generated for an object.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// SentenceStructure tags a kind of sentence seen for an object.
type SentenceStructure string

const (
	StructureDescriptive SentenceStructure = "descriptive"
	StructurePersonal    SentenceStructure = "personal"
	StructureAbility     SentenceStructure = "ability"
)

// Patterns is derived from the most recent sentences and recomputed on every update.
type Patterns struct {
	CommonWords        []string            `json:"commonWords"`
	SentenceStructures []SentenceStructure `json:"sentenceStructures"`
	Complexity         Complexity          `json:"complexity"`
}

// LearningEntry tracks exposure to one normalized object label.
type LearningEntry struct {
	Frequency int       `json:"frequency"`
	LastSeen  time.Time `json:"lastSeen"`
	Patterns  Patterns  `json:"patterns"`
}

// LearningProfile maps normalized labels to their entries.
type LearningProfile map[string]LearningEntry

// Clone returns an independent copy of p.
func (p LearningProfile) Clone() LearningProfile {
	out := make(LearningProfile, len(p))
	for k, v := range p {
		v.Patterns.CommonWords = append([]string(nil), v.Patterns.CommonWords...)
		v.Patterns.SentenceStructures = append([]SentenceStructure(nil), v.Patterns.SentenceStructures...)
		out[k] = v
	}
	return out
}

// Frequency returns how often label has been seen, or 0.
func (p LearningProfile) Frequency(label string) int {
	return p[NormalizeLabel(label)].Frequency
}
