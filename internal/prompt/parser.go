package prompt

import (
	"strings"

	"github.com/kayz/promptfile/internal/grammar"
	"github.com/kayz/promptfile/internal/options"
)

// Markers recognized on their own line, after trimming.
const (
	MarkerBegin   = "$$begin"
	MarkerEnd     = "$$end"
	MarkerSystem  = "$$system"
	MarkerUser    = "$$user"
	MarkerOptions = "$$options"
	MarkerGrammar = "$$grammar"
	MarkerSegment = "$$segment="
)

type section int

const (
	sectionNone section = iota
	sectionSystem
	sectionUser
	sectionOptions
	sectionGrammar
	sectionSegment
)

// Parse reads every block of text into records, validating options against
// profile p with the default checker.
func Parse(text string, p options.Profile) []Record {
	return ParseWith(text, options.DefaultValidator(), p)
}

// ParseWith is Parse with an explicit validator.
func ParseWith(text string, v *options.Validator, p options.Profile) []Record {
	ps := &parser{validator: v, profile: p}
	for _, line := range strings.Split(text, "\n") {
		ps.feed(line)
	}
	ps.finish()
	return ps.records
}

// parser is the line-driven state machine. current is nil outside a block.
type parser struct {
	validator *options.Validator
	profile   options.Profile

	current *Record
	section section
	segment string
	buf     []string

	records []Record
}

func (ps *parser) feed(line string) {
	marker := strings.TrimSpace(line)
	switch {
	case marker == MarkerBegin:
		ps.closeBlock()
		ps.current = &Record{}
	case marker == MarkerEnd:
		ps.closeBlock()
	case ps.current == nil:
		// outside a block
	case marker == MarkerSystem:
		ps.enter(sectionSystem, "")
	case marker == MarkerUser:
		ps.enter(sectionUser, "")
	case marker == MarkerOptions:
		ps.enter(sectionOptions, "")
	case marker == MarkerGrammar:
		ps.enter(sectionGrammar, "")
	case strings.HasPrefix(marker, MarkerSegment):
		ps.enter(sectionSegment, strings.TrimSpace(strings.TrimPrefix(marker, MarkerSegment)))
	case ps.section != sectionNone:
		ps.buf = append(ps.buf, line)
	}
}

// finish implicitly closes an unterminated trailing block.
func (ps *parser) finish() {
	ps.closeBlock()
}

func (ps *parser) enter(s section, segment string) {
	ps.flush()
	ps.section = s
	ps.segment = segment
}

// closeBlock flushes the open section and emits the record if it has a user
// message. It is a no-op outside a block.
func (ps *parser) closeBlock() {
	if ps.current == nil {
		return
	}
	ps.flush()
	if ps.current.User != "" {
		ps.records = append(ps.records, *ps.current)
	}
	ps.current = nil
	ps.section = sectionNone
	ps.segment = ""
}

// flush stores the buffered section content into the current record.
func (ps *parser) flush() {
	if len(ps.buf) == 0 {
		return
	}
	content := strings.TrimSpace(strings.Join(ps.buf, "\n"))
	ps.buf = ps.buf[:0]

	rec := ps.current
	switch ps.section {
	case sectionSystem:
		rec.System = content
	case sectionUser:
		rec.User = content
	case sectionOptions:
		opts := ps.validator.Validate(ps.profile, options.ParseLines(content), false)
		if opts.Len() > 0 {
			rec.Options = opts
		} else {
			rec.Options = nil
		}
	case sectionGrammar:
		if g, ok := grammar.Check(content); ok {
			rec.Grammar = g
		}
	case sectionSegment:
		if ps.segment != "" {
			rec.SetSegment(ps.segment, content)
		}
	}
}
