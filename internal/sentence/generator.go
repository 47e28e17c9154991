// Package sentence produces example sentences for a detected label.
package sentence

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/learning"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
)

// ProfileLookup reports how often a normalized label has been seen (0 if never).
type ProfileLookup func(label string) int

// Source identifies which template branch produced a set of sentences.
type Source string

const (
	SourceCurated Source = "curated"
	SourceTier    Source = "tier"
	SourceGeneric Source = "generic"
)

// Result is a generated set of sentences and how it was chosen.
type Result struct {
	Sentences []string
	Source    Source
	Tier      models.Tier
}

type Generator struct {
	templates catalog.SentenceTemplates

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator builds a generator over templates. rng picks between
// template variants; pass a seeded source in tests.
func NewGenerator(templates catalog.SentenceTemplates, rng *rand.Rand) *Generator {
	return &Generator{templates: templates, rng: rng}
}

// Generate returns three sentences for label.
func (g *Generator) Generate(label string, lookup ProfileLookup) []string {
	return g.GenerateDetailed(label, lookup).Sentences
}

// GenerateDetailed is Generate plus the branch that produced the sentences.
// It never fails: a fault in the curated or tier branch falls back to the
// generic templates.
func (g *Generator) GenerateDetailed(label string, lookup ProfileLookup) (res Result) {
	display := strings.TrimSpace(label)
	key := models.NormalizeLabel(label)

	defer func() {
		if r := recover(); r != nil {
			logger.Default().WithPrefix("sentence").Warn("template selection failed for %q, using generic: %v", key, r)
			res = g.generic(display)
		}
	}()

	if set, ok := g.templates.Curated[key]; ok {
		return Result{
			Sentences: append([]string(nil), set...),
			Source:    SourceCurated,
			Tier:      models.TierBeginner,
		}
	}

	if lookup != nil {
		if freq := lookup(key); freq > 0 {
			tier := learning.TierFor(freq)
			variants := g.templates.Tiers[tier]
			return Result{
				Sentences: fill(variants[g.intn(len(variants))], display),
				Source:    SourceTier,
				Tier:      tier,
			}
		}
	}

	return g.generic(display)
}

func (g *Generator) generic(display string) Result {
	variants := g.templates.Generic
	return Result{
		Sentences: fill(variants[g.intn(len(variants))], display),
		Source:    SourceGeneric,
		Tier:      models.TierBeginner,
	}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func fill(templates []string, label string) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = strings.ReplaceAll(t, catalog.LabelPlaceholder, label)
	}
	return out
}
