// Package lang detects the request language and gates outbound translation.
// The language tag is per-request state threaded through the pipeline; there
// is no process-wide current language.
package lang

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
)

// spanishIndicators is the built-in indicator list for the default
// en/es pairing.
var spanishIndicators = []string{
	"el", "la", "los", "las", "un", "una", "y", "o", "que",
	"cómo", "dónde", "cuándo", "ayuda", "comida", "gracias",
}

const punctCutset = ".,!?;:¡¿\"'()"

// Gateway classifies query language and translates outbound text.
type Gateway struct {
	def        language.Tag
	alt        language.Tag
	indicators map[string]struct{}
	threshold  float64
	translator Translator
}

// NewGateway builds a gateway from configuration. translator may be nil, in
// which case Gate is the identity function.
func NewGateway(cfg config.LanguageConfig, translator Translator) (*Gateway, error) {
	def, err := language.Parse(cfg.Default)
	if err != nil {
		return nil, err
	}
	alt, err := language.Parse(cfg.Alternate)
	if err != nil {
		return nil, err
	}
	words := cfg.Indicators
	if len(words) == 0 {
		words = spanishIndicators
	}
	indicators := make(map[string]struct{}, len(words))
	for _, w := range words {
		indicators[strings.ToLower(w)] = struct{}{}
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = 0.15
	}
	return &Gateway{
		def:        def,
		alt:        alt,
		indicators: indicators,
		threshold:  threshold,
		translator: translator,
	}, nil
}

// Default returns the gateway's default language tag.
func (g *Gateway) Default() language.Tag { return g.def }

// Detect classifies text by indicator-word ratio: when at least the
// threshold fraction of tokens is on the alternate language's indicator
// list, the alternate tag is returned. Empty text is the default language.
func (g *Gateway) Detect(text string) language.Tag {
	tokens := strings.Fields(strings.ToLower(norm.NFC.String(text)))
	if len(tokens) == 0 {
		return g.def
	}
	matches := 0
	for _, tok := range tokens {
		tok = strings.Trim(tok, punctCutset)
		if _, ok := g.indicators[tok]; ok {
			matches++
		}
	}
	if float64(matches)/float64(len(tokens)) >= g.threshold {
		return g.alt
	}
	return g.def
}

// ToDefault translates inbound text from tag into the default language, so
// downstream collaborators see one language. Best effort like Gate.
func (g *Gateway) ToDefault(ctx context.Context, text string, tag language.Tag) string {
	if tag == g.def || g.translator == nil || text == "" {
		return text
	}
	translated, err := g.translator.Translate(ctx, text, tag, g.def)
	if err != nil {
		logger.Warnf("lang: translation from %s failed, forwarding original: %v", tag, err)
		return text
	}
	return translated
}

// Gate translates outbound text when tag differs from the default language.
// Translation is best effort: on failure or when no translator is
// configured, the original text is returned.
func (g *Gateway) Gate(ctx context.Context, text string, tag language.Tag) string {
	if tag == g.def || g.translator == nil || text == "" {
		return text
	}
	translated, err := g.translator.Translate(ctx, text, g.def, tag)
	if err != nil {
		logger.Warnf("lang: translation to %s failed, returning original: %v", tag, err)
		return text
	}
	return translated
}
