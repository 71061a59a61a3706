package adapter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/ordered"
)

func optionsOf(kv ...any) *options.Options {
	o := ordered.New[any]()
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1])
	}
	return o
}

func fullOptions() *options.Options {
	o := options.Normalize(options.Generation, nil, true)
	o.Set(options.Seed, int64(42))
	o.Set(options.StopSequences, []string{"###"})
	o.Set(options.TokenBias, map[string]float64{"50256": -100})
	return o
}

func TestLlamaCppGroupsPenalties(t *testing.T) {
	got := LlamaCpp(optionsOf(
		options.RepeatPenalty, 1.1,
		options.RepeatPenaltyNum, int64(64),
		options.FrequencyPenalty, 0.5,
	))
	want := map[string]any{
		"repeatPenalty": map[string]any{
			"penalty":          1.1,
			"lastTokens":       int64(64),
			"frequencyPenalty": 0.5,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LlamaCpp mismatch (-want +got):\n%s", diff)
	}
}

func TestLlamaCppOmitsPenaltyObjectWithoutPenalties(t *testing.T) {
	got := LlamaCpp(optionsOf(options.Temperature, 0.3, options.TrimWhitespace, false))
	want := map[string]any{"temperature": 0.3, "trimWhitespaceSuffix": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LlamaCpp mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAIFullRecord(t *testing.T) {
	got := OpenAI(fullOptions())
	want := map[string]any{
		"temperature":       0.8,
		"top_p":             0.9,
		"max_tokens":        int64(2048),
		"presence_penalty":  0.0,
		"frequency_penalty": 0.0,
		"stop":              []string{"###"},
		"seed":              int64(42),
		"logit_bias":        map[string]float64{"50256": -100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OpenAI mismatch (-want +got):\n%s", diff)
	}
}

func TestOllamaFullRecord(t *testing.T) {
	got := Ollama(fullOptions())
	want := map[string]any{
		"temperature":      0.8,
		"top_p":            0.9,
		"top_k":            int64(40),
		"min_p":            0.05,
		"num_predict":      int64(2048),
		"repeat_penalty":   1.1,
		"repeat_last_n":    int64(64),
		"mirostat":         int64(0),
		"mirostat_tau":     5.0,
		"mirostat_eta":     0.1,
		"penalize_newline": true,
		"stop":             []string{"###"},
		"seed":             int64(42),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Ollama mismatch (-want +got):\n%s", diff)
	}
}

func TestLlamaCppFullRecord(t *testing.T) {
	got := LlamaCpp(fullOptions())
	want := map[string]any{
		"temperature": 0.8,
		"topP":        0.9,
		"topK":        int64(40),
		"minP":        0.05,
		"maxTokens":   int64(2048),
		"repeatPenalty": map[string]any{
			"penalty":          1.1,
			"lastTokens":       int64(64),
			"presencePenalty":  0.0,
			"frequencyPenalty": 0.0,
			"penalizeNewLine":  true,
		},
		"customStopTriggers":   []string{"###"},
		"trimWhitespaceSuffix": true,
		"seed":                 int64(42),
		"tokenBias":            map[string]float64{"50256": -100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LlamaCpp mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyCollectionsAreSkipped(t *testing.T) {
	o := optionsOf(options.StopSequences, []string{}, options.TokenBias, map[string]float64{})
	for _, vendor := range Vendors() {
		got, err := Project(vendor, o)
		if err != nil {
			t.Fatalf("Project(%s): %v", vendor, err)
		}
		if len(got) != 0 {
			t.Fatalf("Project(%s) should skip empty collections, got %v", vendor, got)
		}
	}
}

func TestProjectNilOptions(t *testing.T) {
	got, err := Project("OpenAI", nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty projection, got %v", got)
	}
}

func TestProjectUnknownVendor(t *testing.T) {
	if _, err := Project("vertex", nil); !errors.Is(err, ErrUnknownVendor) {
		t.Fatalf("expected ErrUnknownVendor, got %v", err)
	}
}
