package dtoskema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Attributes is implemented by domain objects that expose attributes by name
// without reflection.
type Attributes interface {
	// Attr returns the attribute value and whether the attribute exists.
	Attr(name string) (any, bool)
	// SetAttr stores v under name.
	SetAttr(name string, v any) error
}

// accessor is the attribute view of one domain object.
type accessor interface {
	get(name string) (any, bool)
	set(name string, v any) error
}

func accessorFor(obj any) (accessor, error) {
	switch o := obj.(type) {
	case Attributes:
		return attrsAccessor{o}, nil
	case map[string]any:
		return mapAccessor(o), nil
	}
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, ErrUnsupportedObject
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedObject, obj)
	}
	return structAccessor{v: rv, index: structIndex(rv.Type())}, nil
}

type attrsAccessor struct{ o Attributes }

func (a attrsAccessor) get(name string) (any, bool)  { return a.o.Attr(name) }
func (a attrsAccessor) set(name string, v any) error { return a.o.SetAttr(name, v) }

type mapAccessor map[string]any

func (m mapAccessor) get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

func (m mapAccessor) set(name string, v any) error {
	m[name] = v
	return nil
}

type structAccessor struct {
	v     reflect.Value
	index map[string]int
}

func (s structAccessor) get(name string) (any, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	fv := s.v.Field(i)
	switch fv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if fv.IsNil() {
			return nil, true
		}
	}
	return fv.Interface(), true
}

func (s structAccessor) set(name string, v any) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("no attribute %s on %s", name, s.v.Type())
	}
	fv := s.v.Field(i)
	if !fv.CanSet() {
		return fmt.Errorf("attribute %s on %s is not settable; the factory must return a pointer", name, s.v.Type())
	}
	return assign(fv, v)
}

// struct attribute index cache; types are immutable so entries never change.
var structIndexCache sync.Map // reflect.Type -> map[string]int

func structIndex(t reflect.Type) map[string]int {
	if idx, ok := structIndexCache.Load(t); ok {
		return idx.(map[string]int)
	}
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveAttrName(sf)
		if name == "-" || name == "" {
			continue
		}
		idx[name] = i
	}
	actual, _ := structIndexCache.LoadOrStore(t, idx)
	return actual.(map[string]int)
}

// ResolveAttrName applies the rule used to resolve a struct field's attribute
// name. Priority: dto:"name" tag > Go field name; dto:"-" hides the field.
func ResolveAttrName(sf reflect.StructField) string {
	if tag := sf.Tag.Get("dto"); tag != "" {
		if i := strings.IndexByte(tag, ','); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" {
			return strings.TrimSpace(tag)
		}
	}
	return sf.Name
}

// assign stores v into dst, converting between compatible shapes: numeric
// widths (with overflow checks), *big.Int, pointers, nested objects and lists.
func assign(dst reflect.Value, v any) error {
	if IsNull(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	vv := reflect.ValueOf(v)
	dt := dst.Type()
	if vv.Type().AssignableTo(dt) {
		dst.Set(vv)
		return nil
	}
	if dt == bigIntType {
		if b, ok := BigInt(v); ok {
			dst.Set(reflect.ValueOf(b))
			return nil
		}
	}
	switch dt.Kind() {
	case reflect.Pointer:
		// allocate and assign into the pointee
		nv := reflect.New(dt.Elem())
		if err := assign(nv.Elem(), v); err != nil {
			return err
		}
		dst.Set(nv)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if b, ok := BigInt(v); ok {
			if !b.IsInt64() || dst.OverflowInt(b.Int64()) {
				return fmt.Errorf("value %s overflows %s", b, dt)
			}
			dst.SetInt(b.Int64())
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if b, ok := BigInt(v); ok {
			if b.Sign() < 0 || !b.IsUint64() || dst.OverflowUint(b.Uint64()) {
				return fmt.Errorf("value %s overflows %s", b, dt)
			}
			dst.SetUint(b.Uint64())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if KindOf(v) == KindFloat {
			f := reflect.ValueOf(Primitive(v))
			if f.Kind() == reflect.Float32 || f.Kind() == reflect.Float64 {
				dst.SetFloat(f.Float())
				return nil
			}
		}
	case reflect.Slice:
		if elems, ok := ListValues(v); ok {
			out := reflect.MakeSlice(dt, len(elems), len(elems))
			for i, e := range elems {
				if err := assign(out.Index(i), e); err != nil {
					return fmt.Errorf("element %d: %w", i, err)
				}
			}
			dst.Set(out)
			return nil
		}
	}
	// nested objects come back from factories as pointers
	if vv.Kind() == reflect.Pointer && !vv.IsNil() && vv.Elem().Type().AssignableTo(dt) {
		dst.Set(vv.Elem())
		return nil
	}
	if vv.Kind() == dt.Kind() && vv.Type().ConvertibleTo(dt) {
		dst.Set(vv.Convert(dt))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", v, dt)
}
