// Package llm abstracts the generative responder collaborator behind a
// provider interface so it can be swapped or mocked without touching the
// routing pipeline.
package llm

import (
	"context"
	"fmt"

	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
)

// Message roles follow the chat-completion convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    string
	Content string
}

// Provider produces a single reply for a role-tagged message list.
// A negative temperature selects the provider's configured default.
type Provider interface {
	Chat(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// NewProvider builds the configured provider. A missing provider or API key
// yields a nil Provider: the service runs with the responder degraded.
func NewProvider(cfg config.ResponderConfig) (Provider, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	if cfg.APIKey == "" {
		logger.Warnf("llm: no API key configured, generative responder disabled")
		return nil, nil
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
