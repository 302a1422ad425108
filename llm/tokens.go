package llm

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/nourishdc/siteseeker/common/logger"
)

// CountTokens estimates the token count of text for a model, falling back
// to the cl100k_base encoding and then a rough character heuristic.
func CountTokens(model, text string) int {
	enc := encodingFor(model)
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// TrimToBudget truncates text so it fits within budget tokens. Text already
// inside the budget is returned unchanged.
func TrimToBudget(model, text string, budget int) string {
	if budget <= 0 {
		return text
	}
	enc := encodingFor(model)
	if enc == nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	logger.Debugf("llm: trimming prompt from %d to %d tokens", len(tokens), budget)
	return enc.Decode(tokens[:budget])
}

func encodingFor(model string) *tiktoken.Tiktoken {
	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return enc
	}
	enc, err = tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil
	}
	return enc
}
