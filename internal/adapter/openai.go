package adapter

import (
	"encoding/json"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/prompt"
)

// grammarSchemaName labels the response format built from a record grammar.
const grammarSchemaName = "prompt_grammar"

// OpenAIRequest builds a chat completion request for r. Options follow the
// same projection as OpenAI. A grammar becomes a strict JSON schema response
// format.
func OpenAIRequest(model string, r prompt.Record, o *options.Options) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if r.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: r.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: r.User,
	})

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	params := OpenAI(o)
	if v, ok := floatParam(params, "temperature"); ok {
		req.Temperature = float32(v)
	}
	if v, ok := floatParam(params, "top_p"); ok {
		req.TopP = float32(v)
	}
	if v, ok := intParam(params, "max_tokens"); ok {
		req.MaxTokens = v
	}
	if v, ok := floatParam(params, "presence_penalty"); ok {
		req.PresencePenalty = float32(v)
	}
	if v, ok := floatParam(params, "frequency_penalty"); ok {
		req.FrequencyPenalty = float32(v)
	}
	if v, ok := params["stop"].([]string); ok {
		req.Stop = v
	}
	if v, ok := intParam(params, "seed"); ok {
		req.Seed = &v
	}
	if v, ok := params["logit_bias"].(map[string]float64); ok {
		req.LogitBias = make(map[string]int, len(v))
		for token, bias := range v {
			req.LogitBias[token] = int(math.Round(bias))
		}
	}

	if r.Grammar != "" {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   grammarSchemaName,
				Schema: json.RawMessage(r.Grammar),
				Strict: true,
			},
		}
	}
	return req
}

func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
