package adapter

import (
	"github.com/liushuangls/go-anthropic/v2"

	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/prompt"
)

// defaultAnthropicMaxTokens is used when the record sets no maxTokens; the
// Messages API requires one.
const defaultAnthropicMaxTokens = 4096

var anthropicFields = []mapping{
	{from: options.Temperature, to: to("temperature")},
	{from: options.TopP, to: to("top_p")},
	{from: options.TopK, to: to("top_k")},
	{from: options.MaxTokens, to: to("max_tokens")},
	{from: options.StopSequences, to: to("stop_sequences"), nonEmpty: true},
}

// AnthropicRequest builds a Messages API request for r. Only the sampling
// fields the API accepts are carried over.
func AnthropicRequest(model string, r prompt.Record, o *options.Options) anthropic.MessagesRequest {
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		System:    r.System,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(r.User)},
		MaxTokens: defaultAnthropicMaxTokens,
	}

	params := project(o, anthropicFields)
	if v, ok := floatParam(params, "temperature"); ok {
		t := float32(v)
		req.Temperature = &t
	}
	if v, ok := floatParam(params, "top_p"); ok {
		p := float32(v)
		req.TopP = &p
	}
	if v, ok := intParam(params, "top_k"); ok {
		req.TopK = &v
	}
	if v, ok := intParam(params, "max_tokens"); ok {
		req.MaxTokens = v
	}
	if v, ok := params["stop_sequences"].([]string); ok {
		req.StopSequences = v
	}
	return req
}
