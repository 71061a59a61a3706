package prompt

import (
	"strings"

	"github.com/kayz/promptfile/internal/options"
)

// Serialize writes records in the $$-delimited format. Section order within a
// block is options, system, user, grammar, then segments. A user section is
// always written, even when empty.
func Serialize(records []Record) string {
	var lines []string
	for _, r := range records {
		lines = appendRecord(lines, r)
	}
	return strings.Join(lines, "\n")
}

func appendRecord(lines []string, r Record) []string {
	lines = append(lines, MarkerBegin)
	if r.Options.Len() > 0 {
		lines = append(lines, MarkerOptions)
		for k, v := range r.Options.All() {
			lines = append(lines, k+"="+options.FormatValue(v))
		}
	}
	if r.System != "" {
		lines = append(lines, MarkerSystem, r.System)
	}
	lines = append(lines, MarkerUser, r.User)
	if r.Grammar != "" {
		lines = append(lines, MarkerGrammar, r.Grammar)
	}
	for name, text := range r.Segments.All() {
		lines = append(lines, MarkerSegment+name, text)
	}
	return append(lines, MarkerEnd)
}
