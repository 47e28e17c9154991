// Package catalog holds the static content the engine draws from: mission
// environments, sentence templates, display names and offline glossaries.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vytor/visualdex/internal/models"
)

// LabelPlaceholder is replaced by the detected label in templates.
const LabelPlaceholder = "{label}"

// SentencesPerSet is the size of every template set.
const SentencesPerSet = 3

//go:embed catalog.yaml
var defaultYAML []byte

type Environment struct {
	Key     string   `yaml:"key"`
	Emoji   string   `yaml:"emoji"`
	Color   string   `yaml:"color"`
	Objects []string `yaml:"objects"`
}

type SentenceTemplates struct {
	Curated map[string][]string        `yaml:"curated"`
	Tiers   map[models.Tier][][]string `yaml:"tiers"`
	Generic [][]string                 `yaml:"generic"`
}

// Names holds display names for one language.
type Names struct {
	Environments map[string]string `yaml:"environments"`
	Objects      map[string]string `yaml:"objects"`
}

// PhraseRule rewrites a whole phrase. Replacement uses regexp expansion syntax.
type PhraseRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// WordRule replaces a single whole word, case-insensitively.
type WordRule struct {
	Word        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Glossary is the offline substitution table for one target language.
// Phrases are ordered longest pattern first, words longest first.
type Glossary struct {
	Phrases []PhraseRule
	Words   []WordRule
}

type Catalog struct {
	Environments []Environment
	Sentences    SentenceTemplates

	names      map[string]Names
	glossaries map[string]Glossary
}

type rawCatalog struct {
	Environments []Environment      `yaml:"environments"`
	Names        map[string]Names   `yaml:"names"`
	Sentences    SentenceTemplates  `yaml:"sentences"`
	Glossary     map[string]struct {
		Phrases []struct {
			Pattern     string `yaml:"pattern"`
			Replacement string `yaml:"replacement"`
		} `yaml:"phrases"`
		Words map[string]string `yaml:"words"`
	} `yaml:"glossary"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultYAML, 3)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog.yaml: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog. Every environment must offer at
// least minObjects distinct objects.
func Parse(data []byte, minObjects int) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		Environments: raw.Environments,
		Sentences:    raw.Sentences,
		names:        raw.Names,
		glossaries:   make(map[string]Glossary, len(raw.Glossary)),
	}
	if err := c.validate(minObjects); err != nil {
		return nil, err
	}

	for lang, g := range raw.Glossary {
		lang = strings.ToLower(lang)
		var gl Glossary
		for _, p := range g.Phrases {
			re, err := regexp.Compile("(?i)" + p.Pattern)
			if err != nil {
				return nil, fmt.Errorf("glossary %s: phrase %q: %w", lang, p.Pattern, err)
			}
			gl.Phrases = append(gl.Phrases, PhraseRule{Pattern: re, Replacement: p.Replacement})
		}
		// Longest first so "This is an (.+)" is tried before "This is a (.+)".
		sort.SliceStable(gl.Phrases, func(i, j int) bool {
			return len(gl.Phrases[i].Pattern.String()) > len(gl.Phrases[j].Pattern.String())
		})

		words := make(map[string]string, len(g.Words))
		for key, display := range c.names[lang].Objects {
			words[key] = strings.ToLower(display)
		}
		for w, r := range g.Words {
			words[strings.ToLower(w)] = r
		}
		for w, r := range words {
			gl.Words = append(gl.Words, WordRule{
				Word:        w,
				Pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
				Replacement: r,
			})
		}
		sort.Slice(gl.Words, func(i, j int) bool {
			if len(gl.Words[i].Word) != len(gl.Words[j].Word) {
				return len(gl.Words[i].Word) > len(gl.Words[j].Word)
			}
			return gl.Words[i].Word < gl.Words[j].Word
		})
		c.glossaries[lang] = gl
	}
	return c, nil
}

func (c *Catalog) validate(minObjects int) error {
	if len(c.Environments) == 0 {
		return fmt.Errorf("catalog has no environments")
	}
	seen := make(map[string]bool, len(c.Environments))
	for _, env := range c.Environments {
		if env.Key == "" {
			return fmt.Errorf("environment without key")
		}
		if seen[env.Key] {
			return fmt.Errorf("duplicate environment %q", env.Key)
		}
		seen[env.Key] = true

		distinct := make(map[string]bool, len(env.Objects))
		for _, o := range env.Objects {
			distinct[models.NormalizeLabel(o)] = true
		}
		if len(distinct) < minObjects {
			return fmt.Errorf("environment %q has %d distinct objects, need %d", env.Key, len(distinct), minObjects)
		}
	}

	for label, set := range c.Sentences.Curated {
		if len(set) != SentencesPerSet {
			return fmt.Errorf("curated set %q has %d sentences", label, len(set))
		}
		for _, s := range set {
			if !strings.Contains(strings.ToLower(s), label) {
				return fmt.Errorf("curated set %q: %q does not mention the label", label, s)
			}
		}
	}
	for _, tier := range []models.Tier{models.TierBeginner, models.TierIntermediate, models.TierAdvanced} {
		variants := c.Sentences.Tiers[tier]
		if len(variants) != 2 {
			return fmt.Errorf("tier %q needs 2 variants, has %d", tier, len(variants))
		}
		if err := checkTemplateSets(string(tier), variants); err != nil {
			return err
		}
	}
	if len(c.Sentences.Generic) == 0 {
		return fmt.Errorf("no generic templates")
	}
	return checkTemplateSets("generic", c.Sentences.Generic)
}

func checkTemplateSets(name string, sets [][]string) error {
	for i, set := range sets {
		if len(set) != SentencesPerSet {
			return fmt.Errorf("%s variant %d has %d sentences", name, i, len(set))
		}
		for _, s := range set {
			if !strings.Contains(s, LabelPlaceholder) {
				return fmt.Errorf("%s variant %d: %q lacks %s", name, i, s, LabelPlaceholder)
			}
		}
	}
	return nil
}

// Environment looks up an environment by key.
func (c *Catalog) Environment(key string) (Environment, bool) {
	for _, env := range c.Environments {
		if env.Key == key {
			return env, true
		}
	}
	return Environment{}, false
}

// DisplayName returns the localized name for an object or environment key,
// falling back to English and then to the key itself.
func (c *Catalog) DisplayName(lang, key string) string {
	for _, l := range []string{strings.ToLower(lang), "en"} {
		names := c.names[l]
		if n := names.Objects[key]; n != "" {
			return n
		}
		if n := names.Environments[key]; n != "" {
			return n
		}
	}
	return key
}

// Glossary returns the substitution table for a target language.
func (c *Catalog) Glossary(lang string) (Glossary, bool) {
	g, ok := c.glossaries[strings.ToLower(lang)]
	return g, ok
}

// Languages lists the languages that have display names.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.names))
	for l := range c.names {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
