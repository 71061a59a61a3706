package options

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fieldNames() []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func TestValidateDefaultsEveryFieldInDeclaredOrder(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(string(p), func(t *testing.T) {
			got := Normalize(p, nil, true)
			if diff := cmp.Diff(fieldNames(), got.Keys()); diff != "" {
				t.Fatalf("field order mismatch (-want +got):\n%s", diff)
			}
			for _, f := range Fields() {
				v, _ := got.Get(f.Name)
				def, _ := f.Default(p)
				if diff := cmp.Diff(def, v); diff != "" {
					t.Fatalf("%s default mismatch (-want +got):\n%s", f.Name, diff)
				}
				if !DefaultChecker().Check(f, v) {
					t.Fatalf("%s default %v violates its own bounds", f.Name, v)
				}
			}
			if got.Has(Seed) {
				t.Fatalf("seed must never be defaulted")
			}
		})
	}
}

func TestValidateProfilesDiffer(t *testing.T) {
	gen, _ := Normalize(Generation, nil, true).Get(Temperature)
	structured, _ := Normalize(StructuredOutput, nil, true).Get(Temperature)
	if gen != 0.8 || structured != 0.0 {
		t.Fatalf("unexpected temperature defaults: generation=%v structured-output=%v", gen, structured)
	}
}

func TestValidateWithoutDefaultsKeepsOnlySuppliedFields(t *testing.T) {
	raw := map[string]any{
		MaxTokens:   2048.0,
		Temperature: 0.7,
		"unknown":   1.0,
	}
	got := Normalize(Generation, raw, false)
	if diff := cmp.Diff([]string{Temperature, MaxTokens}, got.Keys()); diff != "" {
		t.Fatalf("key mismatch (-want +got):\n%s", diff)
	}
	if v, _ := got.Get(MaxTokens); v != int64(2048) {
		t.Fatalf("maxTokens should normalize to int64 2048, got %#v", v)
	}
	if v, _ := got.Get(Temperature); v != 0.7 {
		t.Fatalf("temperature = %#v, want 0.7", v)
	}
}

func TestValidateInvalidValues(t *testing.T) {
	tests := []struct {
		field string
		value any
	}{
		{field: Temperature, value: 2.5},
		{field: Temperature, value: true},
		{field: TopP, value: -0.1},
		{field: TopK, value: 1.5},
		{field: MaxTokens, value: 0.0},
		{field: Mirostat, value: 3.0},
		{field: PenalizeNewline, value: 1.0},
		{field: StopSequences, value: []any{"a", 2.0}},
		{field: StopSequences, value: "a"},
		{field: TokenBias, value: []any{}},
		{field: RepeatPenaltyNum, value: -2.0},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			raw := map[string]any{tc.field: tc.value}

			without := Normalize(StructuredOutput, raw, false)
			if without.Has(tc.field) {
				t.Fatalf("invalid %s=%v should be omitted without defaults", tc.field, tc.value)
			}

			with := Normalize(StructuredOutput, raw, true)
			f, _ := Lookup(tc.field)
			def, _ := f.Default(StructuredOutput)
			got, _ := with.Get(tc.field)
			if diff := cmp.Diff(def, got); diff != "" {
				t.Fatalf("invalid %s should fall back to default (-want +got):\n%s", tc.field, diff)
			}
		})
	}
}

func TestValidateNormalizesCollections(t *testing.T) {
	raw := map[string]any{
		StopSequences: []any{"###", "\n\n"},
		TokenBias:     map[string]any{"50256": -100.0},
	}
	got := Normalize(Generation, raw, false)
	if v, _ := got.Get(StopSequences); !cmp.Equal(v, []string{"###", "\n\n"}) {
		t.Fatalf("stopSequences = %#v", v)
	}
	if v, _ := got.Get(TokenBias); !cmp.Equal(v, map[string]float64{"50256": -100}) {
		t.Fatalf("tokenBias = %#v", v)
	}
}

func TestValidateSeed(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		defaults bool
		want     any
		present  bool
	}{
		{name: "absent with defaults", raw: map[string]any{}, defaults: true},
		{name: "valid without defaults", raw: map[string]any{Seed: 42.0}, want: int64(42), present: true},
		{name: "valid with defaults", raw: map[string]any{Seed: 42.0}, defaults: true, want: int64(42), present: true},
		{name: "fractional", raw: map[string]any{Seed: 4.2}, defaults: true},
		{name: "negative", raw: map[string]any{Seed: -1.0}, defaults: true},
		{name: "boolean", raw: map[string]any{Seed: true}, defaults: true},
		{name: "upper bound", raw: map[string]any{Seed: 4294967295.0}, want: int64(4294967295), present: true},
		{name: "above upper bound", raw: map[string]any{Seed: 4294967296.0}, defaults: true},
		{name: "huge", raw: map[string]any{Seed: 1e300}, defaults: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(Generation, tc.raw, tc.defaults)
			v, ok := got.Get(Seed)
			if ok != tc.present {
				t.Fatalf("seed present = %v, want %v", ok, tc.present)
			}
			if ok && v != tc.want {
				t.Fatalf("seed = %#v, want %#v", v, tc.want)
			}
			if ok {
				keys := got.Keys()
				if keys[len(keys)-1] != Seed {
					t.Fatalf("seed should come last, got %v", keys)
				}
			}
		})
	}
}

func TestValidateRejectsIntegersOutsideInt64(t *testing.T) {
	tests := []struct {
		field string
		value float64
	}{
		{field: MaxTokens, value: 1e300},
		{field: TopK, value: 1e19},
		{field: RepeatPenaltyNum, value: 9223372036854775808},
		{field: RepeatPenaltyNum, value: -1e300},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			raw := map[string]any{tc.field: tc.value}
			if got := Normalize(Generation, raw, false); got.Has(tc.field) {
				v, _ := got.Get(tc.field)
				t.Fatalf("%s=%g should be rejected, got %#v", tc.field, tc.value, v)
			}

			f, _ := Lookup(tc.field)
			def, _ := f.Default(Generation)
			got, _ := Normalize(Generation, raw, true).Get(tc.field)
			if diff := cmp.Diff(def, got); diff != "" {
				t.Fatalf("%s should fall back to default (-want +got):\n%s", tc.field, diff)
			}
		})
	}
}

func TestValidateOutOfRangeIntegerBypassingChecker(t *testing.T) {
	accept := CheckerFunc(func(Field, any) bool { return true })
	got := Validate(accept, Generation, map[string]any{MaxTokens: 1e300, TopK: 7.0}, false)
	if got.Has(MaxTokens) {
		t.Fatalf("maxTokens beyond int64 must not be materialized")
	}
	if v, _ := got.Get(TopK); v != int64(7) {
		t.Fatalf("topK = %#v, want 7", v)
	}
}

func TestValidateUsesInjectedChecker(t *testing.T) {
	var seen []string
	reject := CheckerFunc(func(f Field, v any) bool {
		seen = append(seen, f.Name)
		return false
	})

	got := Validate(reject, Generation, map[string]any{Temperature: 0.5, Seed: 1.0}, false)
	if got.Len() != 0 {
		t.Fatalf("expected every value rejected, got %v", got.Keys())
	}
	if diff := cmp.Diff([]string{Temperature, Seed}, seen); diff != "" {
		t.Fatalf("checker calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsAreCopies(t *testing.T) {
	first := Normalize(Generation, nil, true)
	stops, _ := first.Get(StopSequences)
	first.Set(StopSequences, append(stops.([]string), "mutated"))
	bias, _ := first.Get(TokenBias)
	bias.(map[string]float64)["x"] = 1

	second := Normalize(Generation, nil, true)
	if v, _ := second.Get(StopSequences); len(v.([]string)) != 0 {
		t.Fatalf("default stopSequences leaked a mutation: %v", v)
	}
	if v, _ := second.Get(TokenBias); len(v.(map[string]float64)) != 0 {
		t.Fatalf("default tokenBias leaked a mutation: %v", v)
	}
}

func TestRevalidateFillsDefaults(t *testing.T) {
	v := DefaultValidator()
	parsed := v.Validate(Generation, map[string]any{Temperature: 0.2, Seed: 7.0}, false)
	full := v.Revalidate(Generation, parsed, true)
	if full.Len() != len(fields)+1 {
		t.Fatalf("expected all fields plus seed, got %v", full.Keys())
	}
	if got, _ := full.Get(Temperature); got != 0.2 {
		t.Fatalf("temperature = %v, want 0.2", got)
	}
	if got, _ := full.Get(Seed); got != int64(7) {
		t.Fatalf("seed = %#v, want 7", got)
	}
}

func TestParseProfile(t *testing.T) {
	if p, err := ParseProfile(""); err != nil || p != Generation {
		t.Fatalf("empty profile = %q, %v", p, err)
	}
	if p, err := ParseProfile("Structured-Output"); err != nil || p != StructuredOutput {
		t.Fatalf("structured-output = %q, %v", p, err)
	}
	if _, err := ParseProfile("creative"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}
