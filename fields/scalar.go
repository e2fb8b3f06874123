package fields

import (
	"context"
	"encoding/json"

	dtoskema "github.com/reoring/dtoskema"
	js "github.com/reoring/dtoskema/jsonschema"
)

// String returns a field accepting text values.
func String() dtoskema.Field { return stringField{} }

// Bool returns a field accepting boolean values.
func Bool() dtoskema.Field { return boolField{} }

// Integer returns a field accepting integers of any magnitude. Integral
// json.Number values become int64 when they fit and *big.Int otherwise.
func Integer() dtoskema.Field { return integerField{} }

// Float returns a field accepting floating point values. Integers are
// rejected.
func Float() dtoskema.Field { return floatField{} }

type stringField struct{}

func (stringField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	if dtoskema.KindOf(v) != dtoskema.KindString {
		return nil, dtoskema.InvalidType(d.Name, "string", v)
	}
	return dtoskema.Primitive(v), nil
}

func (f stringField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.Clean(ctx, d, v)
}

func (stringField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

type boolField struct{}

func (boolField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	if dtoskema.KindOf(v) != dtoskema.KindBool {
		return nil, dtoskema.InvalidType(d.Name, "boolean", v)
	}
	return dtoskema.Primitive(v), nil
}

func (f boolField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.Clean(ctx, d, v)
}

func (boolField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

type integerField struct{}

func (integerField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	if dtoskema.KindOf(v) != dtoskema.KindInteger {
		return nil, dtoskema.InvalidType(d.Name, "integer", v)
	}
	if _, ok := v.(json.Number); ok {
		b, _ := dtoskema.BigInt(v)
		if b.IsInt64() {
			return b.Int64(), nil
		}
		return b, nil
	}
	return dtoskema.Primitive(v), nil
}

func (f integerField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.Clean(ctx, d, v)
}

func (integerField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

type floatField struct{}

func (floatField) Clean(_ context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	if dtoskema.KindOf(v) != dtoskema.KindFloat {
		return nil, dtoskema.InvalidType(d.Name, "float", v)
	}
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return nil, dtoskema.InvalidType(d.Name, "float", v)
		}
		return f, nil
	}
	return dtoskema.Primitive(v), nil
}

func (f floatField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.Clean(ctx, d, v)
}

func (floatField) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }
