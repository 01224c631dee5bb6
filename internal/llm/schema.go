package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// ResponseSchema describes the JSON document a constrained generation
// must return. Schema marks only explicitly tagged fields as required;
// Strict lists every property as required, which OpenAI strict mode needs.
type ResponseSchema struct {
	Name   string
	Schema *jsonschema.Schema
	Strict *jsonschema.Schema
}

// SchemaFor reflects T into a ResponseSchema. Fields tagged
// `jsonschema:"required"` are required in the loose variant.
func SchemaFor[T any](name string) *ResponseSchema {
	var v T
	loose := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	strict := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return &ResponseSchema{
		Name:   name,
		Schema: loose.Reflect(v),
		Strict: strict.Reflect(v),
	}
}

// JSON returns the loose schema encoded as JSON.
func (s *ResponseSchema) JSON() (json.RawMessage, error) {
	data, err := json.Marshal(s.Schema)
	if err != nil {
		return nil, fmt.Errorf("encoding response schema %s: %w", s.Name, err)
	}
	return data, nil
}

// Gemini converts the loose schema into the subset genai understands.
func (s *ResponseSchema) Gemini() *genai.Schema {
	return toGenaiSchema(s.Schema)
}

func toGenaiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
	case "array":
		out.Type = genai.TypeArray
	case "string":
		out.Type = genai.TypeString
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	}
	for _, e := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(e))
	}
	if s.Items != nil {
		out.Items = toGenaiSchema(s.Items)
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = toGenaiSchema(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	return out
}
