package options

import (
	"math"
	"slices"

	"github.com/kayz/promptfile/internal/ordered"
)

// Checker decides whether a candidate value satisfies a field's declared type
// and bounds.
type Checker interface {
	Check(f Field, v any) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(f Field, v any) bool

func (fn CheckerFunc) Check(f Field, v any) bool { return fn(f, v) }

// Validator validates and defaults raw option mappings.
type Validator struct {
	checker Checker
}

// NewValidator returns a Validator that uses c for every field check.
func NewValidator(c Checker) *Validator {
	return &Validator{checker: c}
}

// DefaultValidator uses the JSON Schema backed checker.
func DefaultValidator() *Validator {
	return NewValidator(DefaultChecker())
}

// Validate builds an option record for profile p from raw. Fields are visited
// in declared order. A missing or rejected value is replaced by the profile
// default when includeDefaults is set and omitted otherwise. Seed is kept only
// when supplied and accepted, and is never defaulted.
func (val *Validator) Validate(p Profile, raw map[string]any, includeDefaults bool) *Options {
	out := ordered.New[any]()
	for _, f := range fields {
		if v, ok := val.accept(f, raw); ok {
			out.Set(f.Name, v)
			continue
		}
		if !includeDefaults {
			continue
		}
		if def, ok := f.Default(p); ok {
			out.Set(f.Name, def)
		}
	}

	if v, ok := val.accept(seedField, raw); ok {
		out.Set(Seed, v)
	}
	return out
}

// accept returns the normalized value of f in raw when it passes the checker
// and converts to the field's Go type.
func (val *Validator) accept(f Field, raw map[string]any) (any, bool) {
	v, ok := raw[f.Name]
	if !ok || !val.checker.Check(f, v) {
		return nil, false
	}
	return normalize(f.Kind, v)
}

// Validate is Validator.Validate with an explicit checker.
func Validate(c Checker, p Profile, raw map[string]any, includeDefaults bool) *Options {
	return NewValidator(c).Validate(p, raw, includeDefaults)
}

// Normalize validates raw with the default checker.
func Normalize(p Profile, raw map[string]any, includeDefaults bool) *Options {
	return DefaultValidator().Validate(p, raw, includeDefaults)
}

// Revalidate runs an existing record back through the validator, for example
// to fill in defaults for fields a parsed record left out.
func (val *Validator) Revalidate(p Profile, o *Options, includeDefaults bool) *Options {
	raw := make(map[string]any, o.Len())
	for k, v := range o.All() {
		raw[k] = v
	}
	return val.Validate(p, raw, includeDefaults)
}

// Whole numbers outside [minInt, maxInt) do not fit in an int64.
const (
	minInt = -(1 << 63)
	maxInt = 1 << 63
)

// normalize converts an accepted value to the canonical Go type of its kind.
// It fails for integers that int64 cannot hold.
func normalize(k Kind, v any) (any, bool) {
	switch k {
	case KindNumber:
		if n, ok := toFloat(v); ok {
			return n, true
		}
	case KindInteger:
		n, ok := toFloat(v)
		if !ok || n != math.Trunc(n) || n < minInt || n >= maxInt {
			return nil, false
		}
		return int64(n), true
	case KindStringArray:
		switch t := v.(type) {
		case []string:
			return slices.Clone(t), true
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				s, ok := item.(string)
				if !ok {
					return v, true
				}
				out = append(out, s)
			}
			return out, true
		}
	case KindNumberMap:
		switch t := v.(type) {
		case map[string]float64:
			return cloneValue(t), true
		case map[string]any:
			out := make(map[string]float64, len(t))
			for key, item := range t {
				n, ok := toFloat(item)
				if !ok {
					return v, true
				}
				out[key] = n
			}
			return out, true
		}
	}
	return v, true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
