package dtoskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/dtoskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissing          = "missing"
	CodeMissingAttribute = "missing_attribute"
	CodeNull             = "null"
	CodeInvalidType      = "invalid_type"
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidValue     = "invalid_value"
	CodeInvalidElement   = "invalid_element"
	CodeUnassignable     = "unassignable"
	// Validator codes
	CodeEnum     = "enum"
	CodeTooShort = "too_short"
	CodeTooLong  = "too_long"
	CodeTooSmall = "too_small"
	CodeTooBig   = "too_big"
	CodePattern  = "pattern"
)

var (
	// ErrUsage is returned when a Serializer is given both or neither of data
	// and object. It is never wrapped into Issues.
	ErrUsage = errors.New("dtoskema: exactly one of data or object must be supplied")
	// ErrUnsupportedObject is returned when an object exposes no attributes
	// (not a struct, map[string]any or Attributes implementation).
	ErrUnsupportedObject = errors.New("dtoskema: object does not expose attributes")
)

// Issue represents a single validation entry.
type Issue struct {
	Field   string // Wire name of the field that produced the issue.
	Path    string // List-composed prefix such as subObjs[2]; empty outside list elements.
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"expected":"string", "got":"int"})
	// for i18n and programmatic inspection.
	Params map[string]any
	Cause  error // Optional: underlying error.
}

// String renders the issue as "<path>: <message>" or just the message.
func (it Issue) String() string {
	if it.Path == "" {
		return it.Message
	}
	return it.Path + ": " + it.Message
}

// Issues is a non-empty, ordered collection of validation errors that
// implements error. It is the ValidationError of this package.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns every issue rendered as a human-readable string, in order.
func (iss Issues) Messages() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.String()
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFrom converts err into Issues, wrapping errors that are not Issues as
// a single invalid_value issue for field.
func IssuesFrom(field string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		return iss
	}
	return Issues{{
		Field:   field,
		Code:    CodeInvalidValue,
		Message: i18n.T(CodeInvalidValue, map[string]string{"name": field, "detail": err.Error()}),
		Cause:   err,
	}}
}

// IsTypeError reports whether err carries only invalid_type issues.
func IsTypeError(err error) bool {
	iss, ok := AsIssues(err)
	if !ok || len(iss) == 0 {
		return false
	}
	for _, it := range iss {
		if it.Code != CodeInvalidType {
			return false
		}
	}
	return true
}

// ---- constructors for the issue taxonomy ----

// Missing reports a required field absent from the input data.
func Missing(name string) Issue {
	return Issue{Field: name, Code: CodeMissing, Message: i18n.T(CodeMissing, map[string]string{"name": name})}
}

// MissingAttribute reports a required attribute absent from the source object.
func MissingAttribute(name, attr string) Issue {
	return Issue{Field: name, Code: CodeMissingAttribute, Message: i18n.T(CodeMissingAttribute, map[string]string{"attr": attr})}
}

// Null reports a null value on a field that does not allow null.
func Null(name, attr string) Issue {
	return Issue{Field: name, Code: CodeNull, Message: i18n.T(CodeNull, map[string]string{"name": name, "attr": attr})}
}

// InvalidType builds the type-validation variant: it names the field, the
// expected type description and the actual type of got.
func InvalidType(name, expected string, got any) Issues {
	gotName := TypeName(got)
	return Issues{{
		Field:   name,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, map[string]string{"name": name, "expected": expected, "got": gotName}),
		Params:  map[string]any{"field": name, "expected": expected, "got": gotName},
	}}
}

// InvalidFormat reports a value of the right shape whose text cannot be
// interpreted as expected (dates, identifiers).
func InvalidFormat(name, expected string, cause error) Issues {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return Issues{{
		Field:   name,
		Code:    CodeInvalidFormat,
		Message: i18n.T(CodeInvalidFormat, map[string]string{"name": name, "expected": expected, "detail": detail}),
		Params:  map[string]any{"field": name, "expected": expected},
		Cause:   cause,
	}}
}
