package lang

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/nourishdc/siteseeker/llm"
)

// Translator converts text between languages. Implementations are best
// effort; returning the input unchanged is a valid outcome.
type Translator interface {
	Translate(ctx context.Context, text string, from, to language.Tag) (string, error)
}

// StaticTranslator translates from a fixed table. It covers the service's
// canned notices without a network round trip.
type StaticTranslator struct {
	to    language.Tag
	table map[string]string
}

// NewStatic builds a table-backed translator targeting one language.
func NewStatic(to language.Tag, table map[string]string) *StaticTranslator {
	return &StaticTranslator{to: to, table: table}
}

// Translate looks text up in the table; unknown text passes through
// unchanged.
func (s *StaticTranslator) Translate(_ context.Context, text string, _, to language.Tag) (string, error) {
	if to != s.to {
		return text, nil
	}
	if out, ok := s.table[text]; ok {
		return out, nil
	}
	return text, nil
}

// LLMTranslator translates free text through the generative responder.
type LLMTranslator struct {
	Provider llm.Provider
}

const translatePrompt = "Translate the following text to %s. Reply with the translation only, no commentary.\n\n%s"

// Translate sends a translation instruction to the provider.
func (l *LLMTranslator) Translate(ctx context.Context, text string, _, to language.Tag) (string, error) {
	if l.Provider == nil {
		return text, nil
	}
	name := languageName(to)
	reply, err := l.Provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(translatePrompt, name, text)},
	}, 0)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return text, nil
	}
	return reply, nil
}

func languageName(tag language.Tag) string {
	switch tag {
	case language.Spanish:
		return "Spanish"
	case language.English:
		return "English"
	default:
		return tag.String()
	}
}

// Chain tries translators in order, returning the first changed result.
type Chain []Translator

// Translate walks the chain; a translator that errors stops the chain, one
// that returns the input unchanged yields to the next.
func (c Chain) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	for _, tr := range c {
		out, err := tr.Translate(ctx, text, from, to)
		if err != nil {
			return "", err
		}
		if out != text {
			return out, nil
		}
	}
	return text, nil
}
