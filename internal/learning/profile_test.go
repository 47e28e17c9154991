package learning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/visualdex/internal/learning"
	"github.com/vytor/visualdex/internal/models"
)

var t0 = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func TestUpdate_CreatesEntryOnFirstSighting(t *testing.T) {
	profile := models.LearningProfile{}

	entry := learning.Update(profile, "  Bottle ", []string{"This is a bottle."}, t0)

	assert.Equal(t, 1, entry.Frequency)
	assert.Equal(t, t0, entry.LastSeen)
	require.Contains(t, profile, "bottle")
	assert.Equal(t, entry, profile["bottle"])
}

func TestUpdate_FrequencyCountsUpdates(t *testing.T) {
	profile := models.LearningProfile{}

	for n := 1; n <= 12; n++ {
		at := t0.Add(time.Duration(n) * time.Minute)
		entry := learning.Update(profile, "Cup", []string{"This is a cup."}, at)
		assert.Equal(t, n, entry.Frequency)
		assert.Equal(t, at, entry.LastSeen)
	}
	assert.Len(t, profile, 1)
	assert.Equal(t, 12, profile.Frequency("CUP"))
}

func TestUpdate_LeavesOtherKeysAlone(t *testing.T) {
	profile := models.LearningProfile{"lamp": {Frequency: 4, LastSeen: t0}}

	learning.Update(profile, "sofa", nil, t0.Add(time.Hour))

	assert.Equal(t, 4, profile["lamp"].Frequency)
	assert.Equal(t, t0, profile["lamp"].LastSeen)
	assert.Equal(t, 1, profile["sofa"].Frequency)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		frequency int
		want      models.Tier
	}{
		{0, models.TierBeginner},
		{1, models.TierBeginner},
		{5, models.TierBeginner},
		{6, models.TierIntermediate},
		{10, models.TierIntermediate},
		{11, models.TierAdvanced},
		{100, models.TierAdvanced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, learning.TierFor(tt.frequency), "frequency %d", tt.frequency)
	}
}

func TestAnalyzePatterns_CommonWordsKeepOrderAndDuplicates(t *testing.T) {
	p := learning.AnalyzePatterns([]string{
		"This is a bottle.",
		"The bottle is full of water.",
	})

	assert.Equal(t, []string{"this", "bottle", "bottle", "full", "water"}, p.CommonWords)
}

func TestAnalyzePatterns_Structures(t *testing.T) {
	p := learning.AnalyzePatterns([]string{
		"This is a cup.",
		"I can drink from it.",
	})
	assert.Equal(t, []models.SentenceStructure{
		models.StructureDescriptive,
		models.StructurePersonal,
		models.StructureAbility,
	}, p.SentenceStructures)

	p = learning.AnalyzePatterns([]string{"Look, a lamp!"})
	assert.Empty(t, p.SentenceStructures)

	p = learning.AnalyzePatterns([]string{"This lamp glows."})
	assert.Empty(t, p.SentenceStructures, "'is' inside 'This' is not a match")
}

func TestAnalyzePatterns_Complexity(t *testing.T) {
	tests := []struct {
		name      string
		sentences []string
		want      models.Complexity
	}{
		{"empty", nil, models.ComplexityBasic},
		{"short", []string{"This is a cup."}, models.ComplexityBasic},
		// 25 characters exactly stays basic.
		{"boundary 25", []string{"aaaaaaaaaaaaaaaaaaaaaaaaa"}, models.ComplexityBasic},
		{"26", []string{"aaaaaaaaaaaaaaaaaaaaaaaaaa"}, models.ComplexityIntermediate},
		{"boundary 40", []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, models.ComplexityIntermediate},
		{"41", []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, models.ComplexityAdvanced},
		{"mean of two", []string{"short one", "this sentence is long enough to lift the mean up past forty"}, models.ComplexityIntermediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, learning.AnalyzePatterns(tt.sentences).Complexity)
		})
	}
}
