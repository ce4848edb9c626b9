package extractor

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects T into a JSON schema accepted by OpenAI strict
// structured outputs: no refs, every property required, no extra properties.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	delete(m, "$schema")
	ensureStrict(m)
	return m
}

func ensureStrict(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				ensureStrict(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureStrict(items)
	}
}

// withEnum returns a copy of schema whose property prop is restricted to values.
func withEnum(schema map[string]any, prop string, values []string) map[string]any {
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		out[k] = v
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return out
	}
	newProps := make(map[string]any, len(props))
	for k, v := range props {
		newProps[k] = v
	}
	field := map[string]any{"type": "string"}
	if existing, ok := props[prop].(map[string]any); ok {
		for k, v := range existing {
			field[k] = v
		}
	}
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	field["enum"] = enum
	newProps[prop] = field
	out["properties"] = newProps
	return out
}
