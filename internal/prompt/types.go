// Package prompt reads and writes the $$-delimited prompt file format.
//
// A file is a sequence of blocks:
//
//	$$begin
//	$$options
//	temperature=0.7
//	$$system
//	You are a helpful assistant
//	$$user
//	Hello, world!
//	$$segment=example
//	Some auxiliary text
//	$$end
//
// Parsing is lenient. Malformed option lines, invalid grammars and blocks
// without a user message are dropped rather than reported.
package prompt

import (
	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/ordered"
)

// Record is one prompt template. Empty strings and nil maps mean absent.
type Record struct {
	System   string               `json:"system,omitempty" yaml:"system,omitempty"`
	User     string               `json:"user" yaml:"user"`
	Options  *options.Options     `json:"options,omitempty" yaml:"options,omitempty"`
	Segments *ordered.Map[string] `json:"segment,omitempty" yaml:"segment,omitempty"`
	Grammar  string               `json:"grammar,omitempty" yaml:"grammar,omitempty"`
}

// Segment returns the named segment text.
func (r Record) Segment(name string) (string, bool) {
	return r.Segments.Get(name)
}

// SetSegment stores text under name, overwriting an earlier value.
func (r *Record) SetSegment(name, text string) {
	if r.Segments == nil {
		r.Segments = ordered.New[string]()
	}
	r.Segments.Set(name, text)
}

// Equal reports whether two records hold the same content in the same order.
func (r Record) Equal(other Record) bool {
	return r.System == other.System &&
		r.User == other.User &&
		r.Grammar == other.Grammar &&
		r.Options.Equal(other.Options) &&
		r.Segments.Equal(other.Segments)
}
