package options

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kayz/promptfile/internal/ordered"
)

// Options is a validated option record. Iteration order is the declared field
// order, with seed last.
type Options = ordered.Map[any]

// Profile selects a set of default values.
type Profile string

const (
	Generation       Profile = "generation"
	StructuredOutput Profile = "structured-output"
)

// ErrUnknownProfile is returned by ParseProfile for unrecognized names.
var ErrUnknownProfile = errors.New("unknown options profile")

// ParseProfile resolves a profile name. Empty means Generation.
func ParseProfile(name string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(name))) {
	case "", Generation:
		return Generation, nil
	case StructuredOutput:
		return StructuredOutput, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Profiles lists the known profiles.
func Profiles() []Profile {
	return []Profile{Generation, StructuredOutput}
}

// Kind is the declared value type of a field.
type Kind int

const (
	KindNumber Kind = iota
	KindInteger
	KindBoolean
	KindStringArray
	KindNumberMap
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindStringArray:
		return "string-array"
	case KindNumberMap:
		return "number-map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one recognized option.
type Field struct {
	Name string
	Kind Kind
	Min  *float64
	Max  *float64

	// Defaults holds the default value per profile. Seed has none.
	Defaults map[Profile]any
}

// Default returns a fresh copy of the field's default for p.
func (f Field) Default(p Profile) (any, bool) {
	v, ok := f.Defaults[p]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

func bound(v float64) *float64 { return &v }

func both(gen, structured any) map[Profile]any {
	return map[Profile]any{Generation: gen, StructuredOutput: structured}
}

// Option field names.
const (
	Temperature      = "temperature"
	TopP             = "topP"
	TopK             = "topK"
	MinP             = "minP"
	MaxTokens        = "maxTokens"
	RepeatPenalty    = "repeatPenalty"
	RepeatPenaltyNum = "repeatPenaltyNum"
	PresencePenalty  = "presencePenalty"
	FrequencyPenalty = "frequencyPenalty"
	Mirostat         = "mirostat"
	MirostatTau      = "mirostatTau"
	MirostatEta      = "mirostatEta"
	PenalizeNewline  = "penalizeNewline"
	StopSequences    = "stopSequences"
	TrimWhitespace   = "trimWhitespace"
	TokenBias        = "tokenBias"
	Seed             = "seed"
)

var fields = []Field{
	{Name: Temperature, Kind: KindNumber, Min: bound(0), Max: bound(2), Defaults: both(0.8, 0.0)},
	{Name: TopP, Kind: KindNumber, Min: bound(0), Max: bound(1), Defaults: both(0.9, 1.0)},
	{Name: TopK, Kind: KindInteger, Min: bound(0), Defaults: both(int64(40), int64(1))},
	{Name: MinP, Kind: KindNumber, Min: bound(0), Max: bound(1), Defaults: both(0.05, 0.0)},
	{Name: MaxTokens, Kind: KindInteger, Min: bound(1), Defaults: both(int64(2048), int64(1024))},
	{Name: RepeatPenalty, Kind: KindNumber, Min: bound(0), Max: bound(2), Defaults: both(1.1, 1.0)},
	{Name: RepeatPenaltyNum, Kind: KindInteger, Min: bound(-1), Defaults: both(int64(64), int64(64))},
	{Name: PresencePenalty, Kind: KindNumber, Min: bound(-2), Max: bound(2), Defaults: both(0.0, 0.0)},
	{Name: FrequencyPenalty, Kind: KindNumber, Min: bound(-2), Max: bound(2), Defaults: both(0.0, 0.0)},
	{Name: Mirostat, Kind: KindInteger, Min: bound(0), Max: bound(2), Defaults: both(int64(0), int64(0))},
	{Name: MirostatTau, Kind: KindNumber, Min: bound(0), Max: bound(10), Defaults: both(5.0, 5.0)},
	{Name: MirostatEta, Kind: KindNumber, Min: bound(0), Max: bound(1), Defaults: both(0.1, 0.1)},
	{Name: PenalizeNewline, Kind: KindBoolean, Defaults: both(true, false)},
	{Name: StopSequences, Kind: KindStringArray, Defaults: both([]string{}, []string{})},
	{Name: TrimWhitespace, Kind: KindBoolean, Defaults: both(true, true)},
	{Name: TokenBias, Kind: KindNumberMap, Defaults: both(map[string]float64{}, map[string]float64{})},
}

var seedField = Field{Name: Seed, Kind: KindInteger, Min: bound(0), Max: bound(4294967295)}

// Fields returns the defaulted fields in declared order. Seed is not included.
func Fields() []Field {
	return slices.Clone(fields)
}

// SeedField returns the descriptor of the seed option.
func SeedField() Field {
	return seedField
}

// Lookup finds a field by name, seed included.
func Lookup(name string) (Field, bool) {
	if name == Seed {
		return seedField, true
	}
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case map[string]float64:
		return maps.Clone(t)
	default:
		return v
	}
}
