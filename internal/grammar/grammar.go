// Package grammar validates the structured-output grammar attached to a prompt
// and returns it in canonical form.
package grammar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kayz/promptfile/internal/ordered"
)

const indent = "  "

// Check returns the canonical two-space indented form of text when it holds
// exactly one JSON document. Member order and number spelling are kept as
// written; a repeated member keeps its first position and its last value.
// Blank or malformed text yields ("", false).
func Check(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	src := []byte(trimmed)
	if !json.Valid(src) {
		return "", false
	}

	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	doc, err := decode(dec)
	if err != nil {
		return "", false
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return "", false
	}
	return strings.TrimSuffix(out.String(), "\n"), true
}

// Valid reports whether text is a usable grammar.
func Valid(text string) bool {
	_, ok := Check(text)
	return ok
}

// decode reads one value, keeping objects as ordered maps.
func decode(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := ordered.New[any]()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
