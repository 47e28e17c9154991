// Package learning tracks how often each object has been seen and derives
// the sentence complexity to offer next.
package learning

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vytor/visualdex/internal/models"
)

const (
	beginnerMaxFrequency     = 5
	intermediateMaxFrequency = 10

	advancedMeanLength     = 40.0
	intermediateMeanLength = 25.0
)

var (
	wordRe        = regexp.MustCompile(`[\p{L}\p{N}']+`)
	descriptiveRe = regexp.MustCompile(`(?i)\bis\b`)
	personalRe    = regexp.MustCompile(`\bI\b`)
	abilityRe     = regexp.MustCompile(`(?i)\bcan\b`)
)

// Update records a detection of label in profile (which it mutates) and
// returns the resulting entry. label must be non-empty after trimming.
func Update(profile models.LearningProfile, label string, sentences []string, now time.Time) models.LearningEntry {
	key := models.NormalizeLabel(label)

	entry, ok := profile[key]
	if !ok {
		entry = models.LearningEntry{Frequency: 1}
	} else {
		entry.Frequency++
	}
	entry.LastSeen = now
	entry.Patterns = AnalyzePatterns(sentences)

	profile[key] = entry
	return entry
}

// TierFor maps an exposure count to a sentence tier.
func TierFor(frequency int) models.Tier {
	switch {
	case frequency <= beginnerMaxFrequency:
		return models.TierBeginner
	case frequency <= intermediateMaxFrequency:
		return models.TierIntermediate
	default:
		return models.TierAdvanced
	}
}

// AnalyzePatterns derives common words, sentence structures and complexity
// from a set of sentences.
func AnalyzePatterns(sentences []string) models.Patterns {
	p := models.Patterns{
		CommonWords:        []string{},
		SentenceStructures: []models.SentenceStructure{},
		Complexity:         models.ComplexityBasic,
	}
	if len(sentences) == 0 {
		return p
	}

	var descriptive, personal, ability bool
	totalLen := 0
	for _, s := range sentences {
		for _, w := range wordRe.FindAllString(s, -1) {
			if utf8.RuneCountInString(w) > 3 {
				p.CommonWords = append(p.CommonWords, strings.ToLower(w))
			}
		}
		descriptive = descriptive || descriptiveRe.MatchString(s)
		personal = personal || personalRe.MatchString(s)
		ability = ability || abilityRe.MatchString(s)
		totalLen += utf8.RuneCountInString(s)
	}

	if descriptive {
		p.SentenceStructures = append(p.SentenceStructures, models.StructureDescriptive)
	}
	if personal {
		p.SentenceStructures = append(p.SentenceStructures, models.StructurePersonal)
	}
	if ability {
		p.SentenceStructures = append(p.SentenceStructures, models.StructureAbility)
	}

	mean := float64(totalLen) / float64(len(sentences))
	switch {
	case mean > advancedMeanLength:
		p.Complexity = models.ComplexityAdvanced
	case mean > intermediateMeanLength:
		p.Complexity = models.ComplexityIntermediate
	}
	return p
}
