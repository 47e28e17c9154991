// Package translation turns sentences into a target language through an
// ordered list of strategies, falling back until one succeeds.
package translation

import (
	"context"
	"strings"
)

const DefaultSource = "en"

// Request is one sentence to translate.
type Request struct {
	Text   string
	Source string
	Target string
}

// Strategy is one stage of the cascade. ok is false when the stage could not
// produce a translation; the cascade then tries the next stage.
type Strategy interface {
	Name() string
	Translate(ctx context.Context, req Request) (text string, ok bool)
}

// MarkerStrategy returns the input unchanged behind a language tag such as
// "[ES] ". It always succeeds and closes the cascade.
type MarkerStrategy struct{}

func (MarkerStrategy) Name() string { return "marker" }

func (MarkerStrategy) Translate(_ context.Context, req Request) (string, bool) {
	return Marker(req.Target) + req.Text, true
}

// Marker is the tag prepended to untranslated text.
func Marker(target string) string {
	return "[" + strings.ToUpper(target) + "] "
}
