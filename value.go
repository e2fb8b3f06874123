package dtoskema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

// Kind is the closed set of value shapes found in plain structured data.
type Kind int

const (
	KindOther Kind = iota
	KindNull
	KindBool
	KindInteger
	KindFloat
	KindString
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "other"
	}
}

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// KindOf classifies v. Pointers to non-struct values are followed; *big.Int and
// integral json.Number values are integers of unbounded magnitude.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindFloat
	case *big.Int:
		if t == nil {
			return KindNull
		}
		return KindInteger
	case json.Number:
		if isIntegralNumber(t) {
			return KindInteger
		}
		if _, err := t.Float64(); err == nil {
			return KindFloat
		}
		return KindOther
	case []any:
		return KindList
	case map[string]any:
		return KindMapping
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type() == bigIntType || rv.Elem().Kind() == reflect.Struct {
			return KindOther
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Slice, reflect.Array:
		// byte sequences (raw bytes, fixed-size identifiers) are opaque values
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindOther
		}
		return KindList
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMapping
		}
	case reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	}
	return KindOther
}

func isIntegralNumber(n json.Number) bool {
	s := string(n)
	if s == "" || strings.ContainsAny(s, ".eE") {
		return false
	}
	_, ok := new(big.Int).SetString(s, 10)
	return ok
}

// IsNull reports whether v is nil, a nil pointer or a nil interface. Nil
// slices and maps are empty lists and mappings, not null.
func IsNull(v any) bool { return KindOf(v) == KindNull }

// TypeName describes the runtime type of v for error messages.
func TypeName(v any) string {
	switch KindOf(v) {
	case KindNull:
		return "null"
	case KindOther:
		return fmt.Sprintf("%T", v)
	default:
		return fmt.Sprintf("%s (%T)", KindOf(v), v)
	}
}

// Primitive unwraps pointers and named types into the predeclared builtin
// value of the same kind (string, bool, int64, uint64, float64). Predeclared
// values, *big.Int and json.Number are returned as they are.
func Primitive(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, *big.Int, json.Number:
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && rv.Type() != bigIntType {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return rv.Interface()
}

// BigInt returns v as a big integer when v is of KindInteger.
func BigInt(v any) (*big.Int, bool) {
	switch t := Primitive(v).(type) {
	case *big.Int:
		return new(big.Int).Set(t), true
	case json.Number:
		if !isIntegralNumber(t) {
			return nil, false
		}
		b, ok := new(big.Int).SetString(string(t), 10)
		return b, ok
	case int:
		return big.NewInt(int64(t)), true
	case int8:
		return big.NewInt(int64(t)), true
	case int16:
		return big.NewInt(int64(t)), true
	case int32:
		return big.NewInt(int64(t)), true
	case int64:
		return big.NewInt(t), true
	case uint:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint64:
		return new(big.Int).SetUint64(t), true
	}
	return nil, false
}

// ListValues returns the elements of a list-kind value. []any is returned
// without copying.
func ListValues(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	if KindOf(v) != KindList {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Mapping returns v as map[string]any when it is a string-keyed map.
func Mapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if KindOf(v) != KindMapping {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
