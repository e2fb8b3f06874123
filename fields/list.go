package fields

import (
	"context"
	"strconv"
	"strings"

	dtoskema "github.com/reoring/dtoskema"
	js "github.com/reoring/dtoskema/jsonschema"
)

// List returns a field for lists whose elements may be any of the candidate
// kinds. Candidates are tried in order for each element and the first that
// accepts it wins. When an element is rejected by every candidate the field
// fails with one issue per candidate, prefixed with "<field>[<index>]", and no
// partial list is produced.
func List(candidates ...dtoskema.Field) dtoskema.Field {
	return listField{candidates: candidates}
}

type listField struct{ candidates []dtoskema.Field }

type convertFunc func(c dtoskema.Field, ctx context.Context, d *dtoskema.Descriptor, v any) (any, error)

func (f listField) Clean(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.convert(ctx, d, v, dtoskema.Field.Clean)
}

func (f listField) ToData(ctx context.Context, d *dtoskema.Descriptor, v any) (any, error) {
	return f.convert(ctx, d, v, dtoskema.Field.ToData)
}

func (f listField) convert(ctx context.Context, d *dtoskema.Descriptor, v any, fn convertFunc) (any, error) {
	elems, ok := dtoskema.ListValues(v)
	if !ok {
		return nil, dtoskema.InvalidType(d.Name, "list", v)
	}
	out := make([]any, 0, len(elems))
	var iss dtoskema.Issues
	for i, e := range elems {
		res, elemIss, ok := f.element(ctx, d, i, e, fn)
		if !ok {
			iss = dtoskema.AppendIssues(iss, elemIss...)
			continue
		}
		out = append(out, res)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// element converts one element, collecting one issue per rejecting candidate.
func (f listField) element(ctx context.Context, d *dtoskema.Descriptor, i int, e any, fn convertFunc) (any, dtoskema.Issues, bool) {
	path := d.Name + "[" + strconv.Itoa(i) + "]"
	var iss dtoskema.Issues
	for _, c := range f.candidates {
		res, err := fn(c, ctx, d, e)
		if err == nil {
			return res, nil, true
		}
		iss = dtoskema.AppendIssues(iss, elementIssue(d.Name, path, err))
	}
	if len(f.candidates) == 0 {
		iss = dtoskema.AppendIssues(iss, elementIssue(d.Name, path, dtoskema.InvalidType(d.Name, "list element", e)))
	}
	return nil, iss, false
}

func elementIssue(field, path string, err error) dtoskema.Issue {
	it := dtoskema.Issue{Field: field, Path: path, Code: dtoskema.CodeInvalidElement, Cause: err}
	inner, ok := dtoskema.AsIssues(err)
	if !ok || len(inner) == 0 {
		it.Message = err.Error()
		return it
	}
	if len(inner) == 1 {
		it.Code = inner[0].Code
		it.Params = inner[0].Params
	}
	it.Message = strings.Join(inner.Messages(), "; ")
	return it
}

func (f listField) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "array"}
	var items []*js.Schema
	for _, c := range f.candidates {
		cs := &js.Schema{}
		if p, ok := c.(dtoskema.JSONSchemaer); ok {
			ps, err := p.JSONSchema()
			if err != nil {
				return nil, err
			}
			if ps != nil {
				cs = ps
			}
		}
		items = append(items, cs)
	}
	switch len(items) {
	case 0:
	case 1:
		s.Items = items[0]
	default:
		s.Items = &js.Schema{OneOf: items}
	}
	return s, nil
}
