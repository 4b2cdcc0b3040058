package domain

import (
	"encoding/json"
	"fmt"
)

// Argument is one argument of a Query field.
type Argument struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"` // GraphQL scalar name, e.g. "String", "Int" or "Unknown"
	Required bool   `json:"required" yaml:"required"`
}

// FieldDescriptor describes one field of the generated Query type.
// There is one descriptor per resource that exposes a GET method.
type FieldDescriptor struct {
	// QueryName is the field name derived from the resource path.
	QueryName string `json:"queryName" yaml:"queryName"`

	// Args holds the implicit path-variable argument (if any) followed by
	// the declared query parameters of the GET method, in source order.
	Args []Argument `json:"args" yaml:"args"`

	// DisplayName is the resource's displayName, empty when absent.
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Level is the nesting depth of the resource, 0 for top-level resources.
	Level int `json:"level" yaml:"level"`
}

// Comment is an api-level tag together with all of its values.
// It is encoded as the two-element tuple [tag, values].
type Comment struct {
	Tag    string
	Values []string
}

// MarshalJSON encodes the comment as [tag, values].
func (c Comment) MarshalJSON() ([]byte, error) {
	values := c.Values
	if values == nil {
		values = []string{}
	}
	return json.Marshal([]any{c.Tag, values})
}

// UnmarshalJSON decodes the [tag, values] tuple form.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("comment must be a [tag, values] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Tag); err != nil {
		return fmt.Errorf("comment tag: %w", err)
	}
	if err := json.Unmarshal(raw[1], &c.Values); err != nil {
		return fmt.Errorf("comment values for %q: %w", c.Tag, err)
	}
	return nil
}

// MarshalYAML encodes the comment as [tag, values].
func (c Comment) MarshalYAML() (any, error) {
	values := c.Values
	if values == nil {
		values = []string{}
	}
	return []any{c.Tag, values}, nil
}

// APIStructure is the structured (non-text) form of a generated schema.
type APIStructure struct {
	Comments  []Comment         `json:"comments" yaml:"comments"`
	Resources []FieldDescriptor `json:"resources" yaml:"resources"`
}
