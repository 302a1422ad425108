package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/nourishdc/siteseeker/config"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	client          openai.Client
	model           string
	temperature     float64
	maxTokens       int
	maxPromptTokens int
	timeout         time.Duration
}

// NewOpenAI builds a provider from responder configuration.
func NewOpenAI(cfg config.ResponderConfig) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	timeout := 20 * time.Second
	if cfg.TimeoutMs > 0 {
		timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return &OpenAIProvider{
		client:          openai.NewClient(opts...),
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		maxPromptTokens: cfg.MaxPromptTokens,
		timeout:         timeout,
	}
}

// Chat sends the message list and returns the first choice's content. The
// call is bounded by the configured timeout.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: p.convert(messages),
	}
	if temperature < 0 {
		temperature = p.temperature
	}
	params.Temperature = openai.Float(temperature)
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) convert(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if m.Role == RoleUser && p.maxPromptTokens > 0 {
			content = TrimToBudget(p.model, content, p.maxPromptTokens)
		}
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(content))
		default:
			out = append(out, openai.UserMessage(content))
		}
	}
	return out
}
