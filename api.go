package dtoskema

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reoring/dtoskema/internal/logging"
)

// ---- Convenience wrappers ----

// ToObject converts data into a domain object of type T using s. The schema's
// factory must produce a T (for example via ObjectOf[T] when T is a pointer
// type's element, use ToObject[*T]).
func ToObject[T any](ctx context.Context, s *Schema, data map[string]any) (T, error) {
	var zero T
	sz, err := FromData(s, data)
	if err != nil {
		return zero, err
	}
	if err := sz.Validate(ctx); err != nil {
		return zero, err
	}
	out, ok := sz.Object().(T)
	if !ok {
		return zero, fmt.Errorf("dtoskema: schema %s produced %T, not %T", s.name, sz.Object(), zero)
	}
	return out, nil
}

// ToData converts a domain object into plain data using s.
func ToData(ctx context.Context, s *Schema, object any) (map[string]any, error) {
	sz, err := FromObject(s, object)
	if err != nil {
		return nil, err
	}
	if err := sz.Validate(ctx); err != nil {
		return nil, err
	}
	return sz.Data(), nil
}

// SafeToObject converts data into T, returning (zero, false) on any error.
func SafeToObject[T any](ctx context.Context, s *Schema, data map[string]any) (T, bool) {
	v, err := ToObject[T](ctx, s, data)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Is returns true if data converts cleanly with s.
func Is(ctx context.Context, s *Schema, data map[string]any) bool {
	sz, err := FromData(s, data)
	if err != nil {
		return false
	}
	return sz.Validate(ctx) == nil
}

// SetLogger installs the logger used by conversions whose context carries
// none. The default discards everything.
func SetLogger(l zerolog.Logger) { logging.SetGlobalLogger(l) }

// ---- Conversion-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that makes Validate stop at the first
// field that fails. The required-field pre-check always reports every missing
// field.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current conversion should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
