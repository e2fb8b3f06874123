package dtoskema

import (
	"context"

	js "github.com/reoring/dtoskema/jsonschema"
)

// Field is a typed conversion rule. Clean converts one data-side value into
// its object-side representation; ToData is the inverse. Implementations are
// stateless and receive the descriptor of the field they serve so that errors
// can name it. Null values never reach a Field through a Descriptor.
type Field interface {
	Clean(ctx context.Context, d *Descriptor, v any) (any, error)
	ToData(ctx context.Context, d *Descriptor, v any) (any, error)
}

// Validator is a post-conversion semantic check attached to a field. It runs
// on the cleaned value in the data -> object direction only.
type Validator interface {
	Validate(ctx context.Context, d *Descriptor, v any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, d *Descriptor, v any) error

func (f ValidatorFunc) Validate(ctx context.Context, d *Descriptor, v any) error { return f(ctx, d, v) }

// JSONSchemaer is implemented by fields and validators that contribute to the
// JSON Schema projection of a schema.
type JSONSchemaer interface {
	JSONSchema() (*js.Schema, error)
}

// Descriptor is the static, schema-owned metadata of one field. It is
// immutable once the owning Schema is built and may be shared across
// goroutines.
type Descriptor struct {
	Name       string // Wire name (key in data).
	Attr       string // Attribute name on the domain object.
	Required   bool
	AllowNull  bool
	Validators []Validator
	Kind       Field
	Owner      *Schema
}

// Clean runs the null gate, the field's Clean hook and then every attached
// validator, aggregating validator failures into one Issues.
func (d *Descriptor) Clean(ctx context.Context, v any) (any, error) {
	if IsNull(v) {
		if !d.AllowNull {
			return nil, Issues{Null(d.Name, d.Attr)}
		}
		return nil, nil
	}
	out, err := d.Kind.Clean(ctx, d, v)
	if err != nil {
		return nil, err
	}
	var iss Issues
	for _, val := range d.Validators {
		if err := val.Validate(ctx, d, out); err != nil {
			iss = AppendIssues(iss, IssuesFrom(d.Name, err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ToData runs the null gate and the field's ToData hook.
func (d *Descriptor) ToData(ctx context.Context, v any) (any, error) {
	if IsNull(v) {
		if !d.AllowNull {
			return nil, Issues{Null(d.Name, d.Attr)}
		}
		return nil, nil
	}
	return d.Kind.ToData(ctx, d, v)
}

// JSONSchema projects the field: its kind, nullability and validator
// constraints.
func (d *Descriptor) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{}
	if p, ok := d.Kind.(JSONSchemaer); ok {
		ps, err := p.JSONSchema()
		if err != nil {
			return nil, err
		}
		if ps != nil {
			cp := *ps
			s = &cp
		}
	}
	s.Nullable = d.AllowNull
	for _, val := range d.Validators {
		p, ok := val.(JSONSchemaer)
		if !ok {
			continue
		}
		vs, err := p.JSONSchema()
		if err != nil {
			return nil, err
		}
		mergeConstraints(s, vs)
	}
	return s, nil
}

func mergeConstraints(dst, src *js.Schema) {
	if src == nil {
		return
	}
	if len(src.Enum) > 0 {
		dst.Enum = src.Enum
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Minimum != nil {
		dst.Minimum = src.Minimum
	}
	if src.Maximum != nil {
		dst.Maximum = src.Maximum
	}
	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}
	if src.MinItems != nil {
		dst.MinItems = src.MinItems
	}
	if src.MaxItems != nil {
		dst.MaxItems = src.MaxItems
	}
}
