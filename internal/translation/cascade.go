package translation

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/visualdex/internal/logger"
)

// Cascade tries its strategies in order; the first success wins. A
// MarkerStrategy is always appended so Translate cannot fail.
type Cascade struct {
	strategies []Strategy
	delay      time.Duration
}

func NewCascade(delay time.Duration, strategies ...Strategy) *Cascade {
	list := make([]Strategy, 0, len(strategies)+1)
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if _, ok := s.(MarkerStrategy); ok {
			continue
		}
		list = append(list, s)
	}
	list = append(list, MarkerStrategy{})
	return &Cascade{strategies: list, delay: delay}
}

// Translate returns sentence in target. Blank input and same-language
// requests are returned unchanged.
func (c *Cascade) Translate(ctx context.Context, sentence, source, target string) string {
	out, _ := c.TranslateWith(ctx, sentence, source, target)
	return out
}

// TranslateWith is Translate plus the name of the strategy that answered.
func (c *Cascade) TranslateWith(ctx context.Context, sentence, source, target string) (string, string) {
	if source == "" {
		source = DefaultSource
	}
	if strings.TrimSpace(sentence) == "" || strings.EqualFold(source, target) {
		return sentence, "identity"
	}

	log := logger.FromContext(ctx).WithPrefix("translate")
	req := Request{Text: sentence, Source: source, Target: target}
	for _, s := range c.strategies {
		if out, ok := s.Translate(ctx, req); ok {
			log.Debug("translated via %s: %q", s.Name(), out)
			return out, s.Name()
		}
	}
	out, _ := MarkerStrategy{}.Translate(ctx, req)
	return out, MarkerStrategy{}.Name()
}

// TranslateAll translates sentences one at a time, waiting the configured
// delay between calls. The result has the same length and order as the input.
// Once ctx is done the remaining sentences skip the wait; the remote stage
// then fails fast and the local stages answer.
func (c *Cascade) TranslateAll(ctx context.Context, sentences []string, source, target string) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		if i > 0 {
			c.wait(ctx)
		}
		out[i] = c.Translate(ctx, s, source, target)
	}
	return out
}

func (c *Cascade) wait(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
