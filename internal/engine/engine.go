package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is a minimal interface required by the engine. NextToken
// returns io.EOF once the input is exhausted.
type TokenSource interface {
	NextToken() (Token, error)
}

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupError DuplicateStrictness = iota // reject the document
	DupWarn                             // keep the last value and report through Options.Warn
	DupIgnore                           // keep the last value
)

// Options controls tree building.
type Options struct {
	OnDuplicate DuplicateStrictness
	// MaxDepth bounds container nesting; 0 disables the check.
	MaxDepth int
	// Warn receives non-fatal problems (duplicate keys under DupWarn).
	Warn func(SimpleIssue)
}

// SimpleIssue is a problem found while building a tree. Path is a JSON
// Pointer to the offending location.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string {
	return e.SimpleIssue.Path + ": " + e.SimpleIssue.Message
}

// ErrTrailingData is returned when a value is followed by more input.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Decode builds a plain-data tree (map[string]any, []any, string,
// json.Number, bool, nil) from one top-level value of src and checks that
// nothing follows it. Arrays are never nil.
func Decode(src TokenSource, opt Options) (any, error) {
	b := &builder{src: src, opt: opt}
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := b.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

type builder struct {
	src TokenSource
	opt Options
}

func (b *builder) next() (Token, error) {
	tok, err := b.src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (b *builder) value(tok Token, path string, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		if err := b.enter(path, depth); err != nil {
			return nil, err
		}
		return b.object(path, depth+1)
	case KindBeginArray:
		if err := b.enter(path, depth); err != nil {
			return nil, err
		}
		return b.array(path, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "unexpected token"}}
	}
}

func (b *builder) enter(path string, depth int) error {
	if b.opt.MaxDepth > 0 && depth+1 > b.opt.MaxDepth {
		return IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "max depth exceeded"}}
	}
	return nil
}

func (b *builder) object(path string, depth int) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "expected object key"}}
		}
		kp := JoinJSONPointer(path, tok.String)
		if _, dup := m[tok.String]; dup {
			si := SimpleIssue{Code: "duplicate_key", Path: kp, Message: "key '" + tok.String + "' duplicated"}
			switch b.opt.OnDuplicate {
			case DupError:
				return nil, IssueError{si}
			case DupWarn:
				if b.opt.Warn != nil {
					b.opt.Warn(si)
				}
			}
		}
		vt, err := b.next()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt, kp, depth)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (b *builder) array(path string, depth int) (any, error) {
	arr := []any{}
	for {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok, JoinJSONPointer(path, strconv.Itoa(len(arr))), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinJSONPointer appends one escaped reference token to a JSON Pointer.
func JoinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
