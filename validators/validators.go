// Package validators provides semantic checks attached to schema fields with
// the builder's Validate step. They run on the cleaned value in the
// data -> object direction, after the field kind accepted it.
package validators

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"unicode/utf8"

	dtoskema "github.com/reoring/dtoskema"
	"github.com/reoring/dtoskema/i18n"
	js "github.com/reoring/dtoskema/jsonschema"
)

func issue(d *dtoskema.Descriptor, code string, data map[string]string, params map[string]any) dtoskema.Issues {
	if data == nil {
		data = map[string]string{}
	}
	data["name"] = d.Name
	return dtoskema.Issues{{
		Field:   d.Name,
		Code:    code,
		Message: i18n.T(code, data),
		Params:  params,
	}}
}

// ---- Enum ----

// Enum accepts only values equal to one of choices. Integers compare by
// value regardless of their Go type.
func Enum(choices ...any) *EnumValidator { return &EnumValidator{choices: choices} }

type EnumValidator struct{ choices []any }

func (e *EnumValidator) Validate(_ context.Context, d *dtoskema.Descriptor, v any) error {
	for _, c := range e.choices {
		if equalValue(c, v) {
			return nil
		}
	}
	return issue(d, dtoskema.CodeEnum,
		map[string]string{"choices": fmt.Sprint(e.choices), "got": fmt.Sprint(v)},
		map[string]any{"choices": e.choices, "got": v})
}

func (e *EnumValidator) JSONSchema() (*js.Schema, error) {
	out := make([]any, len(e.choices))
	for i, c := range e.choices {
		out[i] = dtoskema.Primitive(c)
	}
	return &js.Schema{Enum: out}, nil
}

func equalValue(a, b any) bool {
	if dtoskema.KindOf(a) == dtoskema.KindInteger && dtoskema.KindOf(b) == dtoskema.KindInteger {
		x, _ := dtoskema.BigInt(a)
		y, _ := dtoskema.BigInt(b)
		return x.Cmp(y) == 0
	}
	return reflect.DeepEqual(dtoskema.Primitive(a), dtoskema.Primitive(b))
}

// ---- Length / Count ----

// Length bounds the number of characters of a string. A negative bound is
// ignored.
func Length(min, max int) *LengthValidator { return &LengthValidator{min: min, max: max} }

type LengthValidator struct{ min, max int }

func (l *LengthValidator) Validate(_ context.Context, d *dtoskema.Descriptor, v any) error {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return dtoskema.InvalidType(d.Name, "string", v)
	}
	return checkBounds(d, utf8.RuneCountInString(s), l.min, l.max)
}

func (l *LengthValidator) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{}
	if l.min >= 0 {
		s.MinLength = intPtr(l.min)
	}
	if l.max >= 0 {
		s.MaxLength = intPtr(l.max)
	}
	return s, nil
}

// Count bounds the number of elements of a list. A negative bound is ignored.
func Count(min, max int) *CountValidator { return &CountValidator{min: min, max: max} }

type CountValidator struct{ min, max int }

func (c *CountValidator) Validate(_ context.Context, d *dtoskema.Descriptor, v any) error {
	elems, ok := dtoskema.ListValues(v)
	if !ok {
		return dtoskema.InvalidType(d.Name, "list", v)
	}
	return checkBounds(d, len(elems), c.min, c.max)
}

func (c *CountValidator) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{}
	if c.min >= 0 {
		s.MinItems = intPtr(c.min)
	}
	if c.max >= 0 {
		s.MaxItems = intPtr(c.max)
	}
	return s, nil
}

func checkBounds(d *dtoskema.Descriptor, n, min, max int) error {
	if min >= 0 && n < min {
		return issue(d, dtoskema.CodeTooShort, map[string]string{"min": strconv.Itoa(min)}, map[string]any{"min": min, "actual": n})
	}
	if max >= 0 && n > max {
		return issue(d, dtoskema.CodeTooLong, map[string]string{"max": strconv.Itoa(max)}, map[string]any{"max": max, "actual": n})
	}
	return nil
}

func intPtr(n int) *int { return &n }

// ---- Range ----

// Min requires a number greater than or equal to min.
func Min(min float64) *RangeValidator { return &RangeValidator{min: &min} }

// Max requires a number less than or equal to max.
func Max(max float64) *RangeValidator { return &RangeValidator{max: &max} }

// Range requires a number within [min, max]. Integers of any magnitude are
// compared exactly.
func Range(min, max float64) *RangeValidator { return &RangeValidator{min: &min, max: &max} }

type RangeValidator struct{ min, max *float64 }

func (r *RangeValidator) Validate(_ context.Context, d *dtoskema.Descriptor, v any) error {
	n, ok := bigFloat(v)
	if !ok {
		return dtoskema.InvalidType(d.Name, "number", v)
	}
	if r.min != nil && n.Cmp(big.NewFloat(*r.min)) < 0 {
		m := strconv.FormatFloat(*r.min, 'g', -1, 64)
		return issue(d, dtoskema.CodeTooSmall, map[string]string{"min": m}, map[string]any{"min": *r.min})
	}
	if r.max != nil && n.Cmp(big.NewFloat(*r.max)) > 0 {
		m := strconv.FormatFloat(*r.max, 'g', -1, 64)
		return issue(d, dtoskema.CodeTooBig, map[string]string{"max": m}, map[string]any{"max": *r.max})
	}
	return nil
}

func (r *RangeValidator) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Minimum: r.min, Maximum: r.max}, nil
}

func bigFloat(v any) (*big.Float, bool) {
	switch dtoskema.KindOf(v) {
	case dtoskema.KindInteger:
		b, _ := dtoskema.BigInt(v)
		return new(big.Float).SetInt(b), true
	case dtoskema.KindFloat:
		switch f := dtoskema.Primitive(v).(type) {
		case float64:
			if math.IsNaN(f) {
				return nil, false
			}
			return big.NewFloat(f), true
		case float32:
			return bigFloat(float64(f))
		}
	}
	return nil, false
}

// ---- Pattern ----

// Pattern requires a string matching the regular expression. It panics if
// expr does not compile, like regexp.MustCompile.
func Pattern(expr string) *PatternValidator {
	return &PatternValidator{re: regexp.MustCompile(expr)}
}

type PatternValidator struct{ re *regexp.Regexp }

func (p *PatternValidator) Validate(_ context.Context, d *dtoskema.Descriptor, v any) error {
	s, ok := dtoskema.Primitive(v).(string)
	if !ok {
		return dtoskema.InvalidType(d.Name, "string", v)
	}
	if !p.re.MatchString(s) {
		return issue(d, dtoskema.CodePattern, map[string]string{"pattern": p.re.String()}, map[string]any{"pattern": p.re.String()})
	}
	return nil
}

func (p *PatternValidator) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Pattern: p.re.String()}, nil
}

// ---- Func ----

// Func adapts a plain check. A non-Issues error becomes an invalid_value
// issue for the field.
func Func(fn func(v any) error) dtoskema.Validator {
	return dtoskema.ValidatorFunc(func(_ context.Context, _ *dtoskema.Descriptor, v any) error {
		return fn(v)
	})
}
