package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaChecker validates values against one compiled JSON Schema per field.
// It is safe for concurrent use once built.
type SchemaChecker struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaChecker compiles a schema for every field in fs.
func NewSchemaChecker(fs []Field) (*SchemaChecker, error) {
	c := &SchemaChecker{schemas: make(map[string]*jsonschema.Schema, len(fs))}
	for _, f := range fs {
		sch, err := compileField(f)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", f.Name, err)
		}
		c.schemas[f.Name] = sch
	}
	return c, nil
}

var (
	defaultCheckerOnce sync.Once
	defaultChecker     *SchemaChecker
)

// DefaultChecker returns the checker for the built-in field table. The table is
// static, so a compile failure is a programming error.
func DefaultChecker() *SchemaChecker {
	defaultCheckerOnce.Do(func() {
		c, err := NewSchemaChecker(append(Fields(), seedField))
		if err != nil {
			panic(err)
		}
		defaultChecker = c
	})
	return defaultChecker
}

// Check reports whether v satisfies the schema compiled for f. Unknown fields
// and values that are not representable as JSON fail.
func (c *SchemaChecker) Check(f Field, v any) bool {
	sch, ok := c.schemas[f.Name]
	if !ok {
		return false
	}
	inst, err := instance(v)
	if err != nil {
		return false
	}
	return sch.Validate(inst) == nil
}

// instance converts a Go value into the generic form jsonschema validates.
func instance(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func compileField(f Field) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(fieldSchema(f)))
	if err != nil {
		return nil, err
	}
	url := "https://promptfile.local/fields/" + f.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// fieldSchema renders the JSON Schema document for f.
func fieldSchema(f Field) []byte {
	s := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
	}
	switch f.Kind {
	case KindNumber:
		s["type"] = "number"
	case KindInteger:
		s["type"] = "integer"
	case KindBoolean:
		s["type"] = "boolean"
	case KindStringArray:
		s["type"] = "array"
		s["items"] = map[string]any{"type": "string"}
	case KindNumberMap:
		s["type"] = "object"
		s["additionalProperties"] = map[string]any{"type": "number"}
	}
	if f.Min != nil {
		s["minimum"] = *f.Min
	}
	if f.Max != nil {
		s["maximum"] = *f.Max
	}
	data, _ := json.Marshal(s)
	return data
}
