package fields

import (
	"context"

	"github.com/google/uuid"

	dtoskema "github.com/reoring/dtoskema"
	js "github.com/reoring/dtoskema/jsonschema"
)

// UUID returns a field converting text to uuid.UUID. Malformed text is a
// format error, not a type error.
func UUID() dtoskema.Field { return uuidField{} }

type uuidField struct{}

func (uuidField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, dtoskema.InvalidFormat(d.Name, "uuid", err)
	}
	return id, nil
}

func (uuidField) ToData(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case *uuid.UUID:
		if id != nil {
			return id.String(), nil
		}
	}
	return nil, dtoskema.InvalidType(d.Name, "uuid", v)
}

func (uuidField) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "uuid"}, nil
}
