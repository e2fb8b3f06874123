package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/dtoskema/internal/engine"
)

// JSONBytes decodes one JSON document. Numbers are kept as json.Number.
func JSONBytes(ctx context.Context, b []byte, opts ...Options) (any, error) {
	return JSONReader(ctx, bytes.NewReader(b), opts...)
}

// JSONReader decodes one JSON document from r. Input after the document is
// an error.
func JSONReader(ctx context.Context, r io.Reader, opts ...Options) (any, error) {
	o := resolveOptions(opts)
	v, err := eng.Decode(newTokenSource(r), o.engine(ctx))
	if err != nil {
		return nil, fmt.Errorf("source: json: %w", err)
	}
	return v, nil
}

// JSONMapping decodes a JSON document whose top level must be an object.
func JSONMapping(ctx context.Context, b []byte, opts ...Options) (map[string]any, error) {
	v, err := JSONBytes(ctx, b, opts...)
	if err != nil {
		return nil, err
	}
	return Mapping(v)
}

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type tokenSource struct {
	dec   *j.Decoder
	stack []frame
}

func newTokenSource(r io.Reader) *tokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &tokenSource{dec: dec}
}

// valueDone flips the enclosing object back to expecting a key.
func (s *tokenSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *tokenSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray}, nil
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			if v == '}' {
				return eng.Token{Kind: eng.KindEndObject}, nil
			}
			return eng.Token{Kind: eng.KindEndArray}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v)}, nil
	case nil:
		s.valueDone()
		return eng.Token{Kind: eng.KindNull}, nil
	}
	return eng.Token{}, fmt.Errorf("unexpected json token %T", tok)
}
