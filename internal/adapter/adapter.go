// Package adapter projects validated option records onto the option shapes of
// individual inference backends.
package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/kayz/promptfile/internal/options"
)

// ErrUnknownVendor is returned by Project for unrecognized vendor names.
var ErrUnknownVendor = errors.New("unknown vendor")

// Vendor names accepted by Project.
const (
	VendorOpenAI   = "openai"
	VendorOllama   = "ollama"
	VendorLlamaCpp = "llamacpp"
)

// mapping copies one universal field to a path in the vendor object.
type mapping struct {
	from     string
	to       []string
	nonEmpty bool
}

func to(path ...string) []string { return path }

var openAIFields = []mapping{
	{from: options.Temperature, to: to("temperature")},
	{from: options.TopP, to: to("top_p")},
	{from: options.MaxTokens, to: to("max_tokens")},
	{from: options.PresencePenalty, to: to("presence_penalty")},
	{from: options.FrequencyPenalty, to: to("frequency_penalty")},
	{from: options.StopSequences, to: to("stop"), nonEmpty: true},
	{from: options.Seed, to: to("seed")},
	{from: options.TokenBias, to: to("logit_bias"), nonEmpty: true},
}

var ollamaFields = []mapping{
	{from: options.Temperature, to: to("temperature")},
	{from: options.TopP, to: to("top_p")},
	{from: options.TopK, to: to("top_k")},
	{from: options.MinP, to: to("min_p")},
	{from: options.MaxTokens, to: to("num_predict")},
	{from: options.RepeatPenalty, to: to("repeat_penalty")},
	{from: options.RepeatPenaltyNum, to: to("repeat_last_n")},
	{from: options.Mirostat, to: to("mirostat")},
	{from: options.MirostatTau, to: to("mirostat_tau")},
	{from: options.MirostatEta, to: to("mirostat_eta")},
	{from: options.PenalizeNewline, to: to("penalize_newline")},
	{from: options.StopSequences, to: to("stop"), nonEmpty: true},
	{from: options.Seed, to: to("seed")},
}

// The five penalty fields share one nested object.
var llamaCppFields = []mapping{
	{from: options.Temperature, to: to("temperature")},
	{from: options.TopP, to: to("topP")},
	{from: options.TopK, to: to("topK")},
	{from: options.MinP, to: to("minP")},
	{from: options.MaxTokens, to: to("maxTokens")},
	{from: options.RepeatPenalty, to: to("repeatPenalty", "penalty")},
	{from: options.RepeatPenaltyNum, to: to("repeatPenalty", "lastTokens")},
	{from: options.PresencePenalty, to: to("repeatPenalty", "presencePenalty")},
	{from: options.FrequencyPenalty, to: to("repeatPenalty", "frequencyPenalty")},
	{from: options.PenalizeNewline, to: to("repeatPenalty", "penalizeNewLine")},
	{from: options.StopSequences, to: to("customStopTriggers"), nonEmpty: true},
	{from: options.TrimWhitespace, to: to("trimWhitespaceSuffix")},
	{from: options.Seed, to: to("seed")},
	{from: options.TokenBias, to: to("tokenBias"), nonEmpty: true},
}

// OpenAI maps options onto OpenAI chat completion parameters.
func OpenAI(o *options.Options) map[string]any {
	return project(o, openAIFields)
}

// Ollama maps options onto the Ollama "options" object.
func Ollama(o *options.Options) map[string]any {
	return project(o, ollamaFields)
}

// LlamaCpp maps options onto node-llama-cpp prompt options.
func LlamaCpp(o *options.Options) map[string]any {
	return project(o, llamaCppFields)
}

// Project dispatches to the adapter registered under vendor.
func Project(vendor string, o *options.Options) (map[string]any, error) {
	switch strings.ToLower(strings.TrimSpace(vendor)) {
	case VendorOpenAI:
		return OpenAI(o), nil
	case VendorOllama:
		return Ollama(o), nil
	case VendorLlamaCpp, "llama.cpp", "node-llama-cpp":
		return LlamaCpp(o), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, vendor)
	}
}

// Vendors lists the names accepted by Project.
func Vendors() []string {
	return []string{VendorOpenAI, VendorOllama, VendorLlamaCpp}
}

func project(o *options.Options, table []mapping) map[string]any {
	out := make(map[string]any)
	for _, m := range table {
		v, ok := o.Get(m.from)
		if !ok {
			continue
		}
		if m.nonEmpty && isEmpty(v) {
			continue
		}
		dst := out
		for _, key := range m.to[:len(m.to)-1] {
			next, ok := dst[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				dst[key] = next
			}
			dst = next
		}
		dst[m.to[len(m.to)-1]] = v
	}
	return out
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	}
	return false
}
