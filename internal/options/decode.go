package options

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DecodeValue turns the right-hand side of one key=value line into a typed
// value: []any for a JSON array, bool, or float64. The second result is false
// when the text yields nothing and the key should be dropped.
func DecodeValue(text string) (any, bool) {
	if text == "" {
		return nil, false
	}

	if strings.HasPrefix(text, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(text), &arr); err == nil {
			return arr, true
		}
	}

	unquoted := stripQuotes(text)
	switch strings.ToLower(unquoted) {
	case "true", "1", "y":
		return true, true
	case "false", "0", "n":
		return false, true
	}

	n, err := strconv.ParseFloat(strings.Replace(unquoted, ",", ".", 1), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, false
	}
	return n, true
}

func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseLines decodes a block of key=value lines into a raw mapping. Lines
// without '=' or with an empty key position, and values that do not decode,
// are skipped. The last occurrence of a key wins.
func ParseLines(text string) map[string]any {
	raw := make(map[string]any)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if v, ok := DecodeValue(strings.TrimSpace(line[idx+1:])); ok {
			raw[key] = v
		}
	}
	return raw
}

// FormatValue renders a value as the right-hand side of a key=value line.
// Numbers equal to 0 or 1 get a decimal point so they decode as numbers, not
// booleans.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return formatNumber(float64(t))
	case int64:
		return formatNumber(float64(t))
	case int32:
		return formatNumber(float64(t))
	default:
		return marshalLiteral(v)
	}
}

func formatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if s == "0" || s == "1" {
		s += ".0"
	}
	return s
}

func marshalLiteral(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
