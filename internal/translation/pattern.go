package translation

import (
	"context"
	"strings"

	"github.com/vytor/visualdex/internal/catalog"
)

// PatternStrategy rewrites English text with the catalog glossary: phrase
// rules first, then whole-word replacements. It fails when nothing changed.
type PatternStrategy struct {
	catalog *catalog.Catalog
}

func NewPatternStrategy(c *catalog.Catalog) *PatternStrategy {
	return &PatternStrategy{catalog: c}
}

func (s *PatternStrategy) Name() string { return "pattern" }

func (s *PatternStrategy) Translate(_ context.Context, req Request) (string, bool) {
	if !strings.EqualFold(req.Source, DefaultSource) {
		return "", false
	}
	g, ok := s.catalog.Glossary(req.Target)
	if !ok {
		return "", false
	}

	out := req.Text
	for _, p := range g.Phrases {
		out = p.Pattern.ReplaceAllString(out, p.Replacement)
	}
	for _, w := range g.Words {
		out = w.Pattern.ReplaceAllLiteralString(out, w.Replacement)
	}
	if out == req.Text {
		return "", false
	}
	return out, true
}
