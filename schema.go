package dtoskema

import (
	js "github.com/reoring/dtoskema/jsonschema"
)

// Schema is the immutable definition of one domain-object shape: its ordered
// field descriptors and optional object factory. A Schema is safe for
// concurrent use by any number of Serializers.
type Schema struct {
	name    string
	factory func() any
	fields  []*Descriptor
	byName  map[string]*Descriptor
}

// Name returns the schema name given at declaration.
func (s *Schema) Name() string { return s.name }

// Fields returns the descriptors in declaration order. The slice is a copy;
// the descriptors themselves must not be modified.
func (s *Schema) Fields() []*Descriptor { return append([]*Descriptor(nil), s.fields...) }

// Field returns the descriptor registered under the wire name.
func (s *Schema) Field(name string) (*Descriptor, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// NewObject constructs a fresh domain object using the factory, or an empty
// map[string]any when the schema has none.
func (s *Schema) NewObject() any {
	if s.factory == nil {
		return map[string]any{}
	}
	return s.factory()
}

// JSONSchema projects the schema into a JSON Schema object. Required fields
// are listed in declaration order.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(s.fields))
	var req []string
	for _, d := range s.fields {
		ps, err := d.JSONSchema()
		if err != nil {
			return nil, err
		}
		props[d.Name] = ps
		if d.Required {
			req = append(req, d.Name)
		}
	}
	return &js.Schema{Title: s.name, Type: "object", Properties: props, Required: req, AdditionalProperties: true}, nil
}
