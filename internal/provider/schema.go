package provider

import "encoding/json"

// Schema is a minimal JSON Schema representation, enough to constrain the
// object shapes this system asks models for. It marshals directly to the
// schema JSON handed to back-ends.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Object builds an object schema.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// String builds a string schema.
func String(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

// StringEnum builds a string schema restricted to the given values.
func StringEnum(description string, values []string) *Schema {
	return &Schema{Type: "string", Description: description, Enum: values}
}

// JSON serializes the schema.
func (s *Schema) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// PromptInstruction renders the schema as a prompt suffix for back-ends
// without native schema support.
func (s *Schema) PromptInstruction() string {
	data, err := s.JSON()
	if err != nil {
		return ""
	}
	return "\n\nRespond with a single JSON object matching this JSON Schema, and nothing else:\n" + string(data)
}
