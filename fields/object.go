package fields

import (
	"context"
	"errors"

	dtoskema "github.com/reoring/dtoskema"
	js "github.com/reoring/dtoskema/jsonschema"
)

// Object returns a field that converts a nested mapping with the child schema.
// Errors reported by the child are propagated unchanged.
func Object(child *dtoskema.Schema) dtoskema.Field { return objectField{child: child} }

type objectField struct{ child *dtoskema.Schema }

func (f objectField) Clean(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	m, ok := dtoskema.Mapping(v)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "mapping", v)
	}
	if m == nil {
		m = map[string]any{}
	}
	sz, err := dtoskema.FromData(f.child, m)
	if err != nil {
		return nil, err
	}
	if err := sz.Validate(ctx); err != nil {
		return nil, err
	}
	return sz.Object(), nil
}

func (f objectField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	// Reached without the null gate from list candidates.
	if dtoskema.IsNull(v) {
		return nil, dtoskema.InvalidType(d.Name, "object", v)
	}
	sz, err := dtoskema.FromObject(f.child, v)
	if err != nil {
		return nil, err
	}
	if err := sz.Validate(ctx); err != nil {
		if errors.Is(err, dtoskema.ErrUnsupportedObject) {
			return nil, dtoskema.InvalidType(d.Name, "object", v)
		}
		return nil, err
	}
	return sz.Data(), nil
}

func (f objectField) JSONSchema() (*js.Schema, error) { return f.child.JSONSchema() }
