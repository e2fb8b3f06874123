// Package source turns encoded documents into the plain data (map[string]any,
// []any, string, json.Number, bool, nil) consumed by dtoskema serializers.
// JSON is read token by token with goccy/go-json; YAML is read with yaml.v3.
// Both keep integers exact as json.Number values.
package source

import (
	"context"
	"fmt"

	"github.com/creasty/defaults"

	dtoskema "github.com/reoring/dtoskema"
	eng "github.com/reoring/dtoskema/internal/engine"
	"github.com/reoring/dtoskema/internal/logging"
)

// Duplicates selects how repeated mapping keys are handled.
type Duplicates int

const (
	DuplicateError  Duplicates = iota // reject the document (default)
	DuplicateWarn                     // keep the last value and log a warning
	DuplicateIgnore                   // keep the last value
)

// Options configures the loaders. The zero value is completed with defaults.
type Options struct {
	OnDuplicate Duplicates
	// MaxDepth bounds container nesting. Negative disables the check.
	MaxDepth int `default:"256"`
}

func resolveOptions(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	defaults.MustSet(&o)
	return o
}

func (o Options) engine(ctx context.Context) eng.Options {
	eo := eng.Options{MaxDepth: o.MaxDepth}
	if eo.MaxDepth < 0 {
		eo.MaxDepth = 0
	}
	switch o.OnDuplicate {
	case DuplicateWarn:
		eo.OnDuplicate = eng.DupWarn
	case DuplicateIgnore:
		eo.OnDuplicate = eng.DupIgnore
	default:
		eo.OnDuplicate = eng.DupError
	}
	eo.Warn = func(si eng.SimpleIssue) {
		logging.Ctx(ctx).Warn().Str("path", si.Path).Str("code", si.Code).Msg(si.Message)
	}
	return eo
}

// Mapping asserts that a decoded document is a mapping, the shape a
// serializer accepts at the top level.
func Mapping(v any) (map[string]any, error) {
	m, ok := dtoskema.Mapping(v)
	if !ok {
		return nil, fmt.Errorf("source: top-level value is %s, not a mapping", dtoskema.TypeName(v))
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
