package dtoskema

import (
	"context"

	"github.com/reoring/dtoskema/i18n"
	"github.com/reoring/dtoskema/internal/logging"
)

// Direction is the conversion direction of a Serializer, fixed at construction.
type Direction int

const (
	DataToObject Direction = iota + 1
	ObjectToData
)

func (d Direction) String() string {
	switch d {
	case DataToObject:
		return "data_to_object"
	case ObjectToData:
		return "object_to_data"
	}
	return "unknown"
}

// Serializer is one conversion session binding a Schema to a single input.
// It is not safe for concurrent use; the Schema it references is.
type Serializer struct {
	schema *Schema
	dir    Direction
	data   map[string]any
	object any
}

// New creates a session for s. Exactly one of data and object must be
// supplied; otherwise ErrUsage is returned.
func New(s *Schema, data map[string]any, object any) (*Serializer, error) {
	hasData := data != nil
	hasObject := !IsNull(object)
	if s == nil || hasData == hasObject {
		return nil, ErrUsage
	}
	sz := &Serializer{schema: s}
	if hasData {
		sz.dir = DataToObject
		sz.data = data
	} else {
		sz.dir = ObjectToData
		sz.object = object
	}
	return sz, nil
}

// FromData creates a data -> object session.
func FromData(s *Schema, data map[string]any) (*Serializer, error) {
	if data == nil {
		return nil, ErrUsage
	}
	return New(s, data, nil)
}

// FromObject creates an object -> data session.
func FromObject(s *Schema, object any) (*Serializer, error) {
	return New(s, nil, object)
}

// Schema returns the schema the session converts with.
func (sz *Serializer) Schema() *Schema { return sz.schema }

// Direction returns the conversion direction.
func (sz *Serializer) Direction() Direction { return sz.dir }

// Data returns the data mapping: the input for data -> object sessions, the
// produced mapping after a successful Validate for object -> data sessions.
func (sz *Serializer) Data() map[string]any { return sz.data }

// Object returns the domain object: the input for object -> data sessions, the
// produced object after a successful Validate for data -> object sessions.
func (sz *Serializer) Object() any { return sz.object }

// Validate runs the conversion in the session's direction. On failure it
// returns Issues listing every problem found and leaves the output unset.
// Validate may be called again; each call recomputes the output.
func (sz *Serializer) Validate(ctx context.Context) error {
	log := logging.Ctx(ctx)
	log.Debug().
		Str("schema", sz.schema.name).
		Stringer("direction", sz.dir).
		Int("fields", len(sz.schema.fields)).
		Msg("validate start")

	var err error
	switch sz.dir {
	case DataToObject:
		sz.object = nil
		sz.object, err = sz.dataToObject(ctx)
	case ObjectToData:
		sz.data = nil
		sz.data, err = sz.objectToData(ctx)
	default:
		return ErrUsage
	}

	ev := log.Debug().Str("schema", sz.schema.name).Stringer("direction", sz.dir)
	if iss, ok := AsIssues(err); ok {
		ev = ev.Int("issues", len(iss))
	} else if err != nil {
		ev = ev.Err(err)
	}
	ev.Bool("ok", err == nil).Msg("validate finish")
	return err
}

func (sz *Serializer) dataToObject(ctx context.Context) (any, error) {
	s := sz.schema
	var iss Issues
	for _, d := range s.fields {
		if !d.Required {
			continue
		}
		if _, ok := sz.data[d.Name]; !ok {
			iss = AppendIssues(iss, Missing(d.Name))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	obj := s.NewObject()
	acc, err := accessorFor(obj)
	if err != nil {
		return nil, err
	}
	failFast := IsFailFast(ctx)
	for _, d := range s.fields {
		raw, ok := sz.data[d.Name]
		if !ok {
			continue
		}
		v, err := d.Clean(ctx, raw)
		if err != nil {
			fieldIss := IssuesFrom(d.Name, err)
			traceField(ctx, s, d, fieldIss)
			iss = AppendIssues(iss, fieldIss...)
			if failFast {
				break
			}
			continue
		}
		if err := acc.set(d.Attr, v); err != nil {
			it := unassignable(d, err)
			traceField(ctx, s, d, Issues{it})
			iss = AppendIssues(iss, it)
			if failFast {
				break
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return obj, nil
}

func (sz *Serializer) objectToData(ctx context.Context) (map[string]any, error) {
	s := sz.schema
	acc, err := accessorFor(sz.object)
	if err != nil {
		return nil, err
	}
	var iss Issues
	for _, d := range s.fields {
		if !d.Required {
			continue
		}
		if _, ok := acc.get(d.Attr); !ok {
			iss = AppendIssues(iss, MissingAttribute(d.Name, d.Attr))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	out := make(map[string]any, len(s.fields))
	failFast := IsFailFast(ctx)
	for _, d := range s.fields {
		v, ok := acc.get(d.Attr)
		if !ok {
			continue
		}
		dv, err := d.ToData(ctx, v)
		if err != nil {
			fieldIss := IssuesFrom(d.Name, err)
			traceField(ctx, s, d, fieldIss)
			iss = AppendIssues(iss, fieldIss...)
			if failFast {
				break
			}
			continue
		}
		out[d.Name] = dv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func unassignable(d *Descriptor, err error) Issue {
	return Issue{
		Field:   d.Name,
		Code:    CodeUnassignable,
		Message: i18n.T(CodeUnassignable, map[string]string{"name": d.Name, "attr": d.Attr, "detail": err.Error()}),
		Cause:   err,
	}
}

func traceField(ctx context.Context, s *Schema, d *Descriptor, iss Issues) {
	logging.Ctx(ctx).Debug().
		Str("schema", s.name).
		Str("field", d.Name).
		Strs("issues", iss.Messages()).
		Msg("field rejected")
}
