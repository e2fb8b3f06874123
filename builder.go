package dtoskema

import (
	"fmt"
	"reflect"
)

type objectBuilder struct {
	name    string
	factory func() any
	fields  []*Descriptor
}

type fieldStep struct {
	b *objectBuilder
	d *Descriptor
}

// Object creates a schema builder. Without a Factory, data -> object
// conversion produces map[string]any objects.
func Object(name string) *objectBuilder {
	return &objectBuilder{name: name}
}

// ObjectOf creates a schema builder whose factory allocates a new *T.
func ObjectOf[T any]() *objectBuilder {
	var zero T
	name := reflect.TypeOf(&zero).Elem().Name()
	if name == "" {
		name = fmt.Sprintf("%T", zero)
	}
	return Object(name).Factory(func() any { return new(T) })
}

// Factory sets the object factory used for data -> object conversion.
// Construction arguments are captured by the closure. The returned object must
// be addressable (a pointer or a map) so attributes can be set.
func (b *objectBuilder) Factory(fn func() any) *objectBuilder {
	b.factory = fn
	return b
}

// Field registers a field under its wire name. The attribute name defaults to
// the wire name, the field is optional and null is allowed.
func (b *objectBuilder) Field(name string, kind Field) *fieldStep {
	d := &Descriptor{Name: name, Attr: name, AllowNull: true, Kind: kind}
	b.fields = append(b.fields, d)
	return &fieldStep{b: b, d: d}
}

// Attr sets the attribute name used on the domain object.
func (f *fieldStep) Attr(attr string) *fieldStep {
	f.d.Attr = attr
	return f
}

// Required marks the field as required.
func (f *fieldStep) Required() *fieldStep {
	f.d.Required = true
	return f
}

// Optional marks the field as optional (default).
func (f *fieldStep) Optional() *fieldStep {
	f.d.Required = false
	return f
}

// NotNull rejects null values for the field.
func (f *fieldStep) NotNull() *fieldStep {
	f.d.AllowNull = false
	return f
}

// Nullable accepts null values for the field (default).
func (f *fieldStep) Nullable() *fieldStep {
	f.d.AllowNull = true
	return f
}

// Validate attaches validators, run in order after the field's own Clean.
func (f *fieldStep) Validate(vs ...Validator) *fieldStep {
	for _, v := range vs {
		if v != nil {
			f.d.Validators = append(f.d.Validators, v)
		}
	}
	return f
}

func (f *fieldStep) Field(name string, kind Field) *fieldStep { return f.b.Field(name, kind) }
func (f *fieldStep) Factory(fn func() any) *objectBuilder     { return f.b.Factory(fn) }
func (f *fieldStep) Build() (*Schema, error)                   { return f.b.Build() }
func (f *fieldStep) MustBuild() *Schema                        { return f.b.MustBuild() }

// Build validates the declaration and returns an immutable Schema. Wire names
// and attribute names must be unique and every field needs a kind.
func (b *objectBuilder) Build() (*Schema, error) {
	s := &Schema{
		name:    b.name,
		factory: b.factory,
		fields:  make([]*Descriptor, 0, len(b.fields)),
		byName:  make(map[string]*Descriptor, len(b.fields)),
	}
	var iss Issues
	attrs := make(map[string]struct{}, len(b.fields))
	for _, src := range b.fields {
		d := *src
		d.Validators = append([]Validator(nil), src.Validators...)
		d.Owner = s
		if d.Name == "" {
			iss = AppendIssues(iss, Issue{Code: CodeInvalidValue, Message: "field wire name must not be empty"})
			continue
		}
		if d.Kind == nil {
			iss = AppendIssues(iss, Issue{Field: d.Name, Code: CodeInvalidValue, Message: "field " + d.Name + " has no kind"})
		}
		if _, dup := s.byName[d.Name]; dup {
			iss = AppendIssues(iss, Issue{Field: d.Name, Code: CodeInvalidValue, Message: "duplicate wire name " + d.Name})
			continue
		}
		if _, dup := attrs[d.Attr]; dup {
			iss = AppendIssues(iss, Issue{Field: d.Name, Code: CodeInvalidValue, Message: "duplicate attribute name " + d.Attr})
			continue
		}
		attrs[d.Attr] = struct{}{}
		s.byName[d.Name] = &d
		s.fields = append(s.fields, &d)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
