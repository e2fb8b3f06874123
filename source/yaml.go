package source

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/dtoskema/internal/engine"
)

// YAMLBytes decodes the first YAML document in b. Mapping keys that are not
// strings are stringified, integers become json.Number and timestamps stay
// text. An empty document decodes to nil.
func YAMLBytes(ctx context.Context, b []byte, opts ...Options) (any, error) {
	o := resolveOptions(opts)
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("source: yaml: %w", err)
	}
	c := yamlConverter{opt: o.engine(ctx)}
	v, err := c.node(&doc, "", 0)
	if err != nil {
		return nil, fmt.Errorf("source: yaml: %w", err)
	}
	return v, nil
}

// YAMLMapping decodes a YAML document whose top level must be a mapping.
func YAMLMapping(ctx context.Context, b []byte, opts ...Options) (map[string]any, error) {
	v, err := YAMLBytes(ctx, b, opts...)
	if err != nil {
		return nil, err
	}
	return Mapping(v)
}

type yamlConverter struct{ opt eng.Options }

func (c yamlConverter) fail(code, path, msg string) error {
	if path == "" {
		path = "/"
	}
	return eng.IssueError{SimpleIssue: eng.SimpleIssue{Code: code, Path: path, Message: msg}}
}

func (c yamlConverter) node(n *yaml.Node, path string, depth int) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		return c.node(n.Alias, path, depth)
	case yaml.MappingNode:
		if c.opt.MaxDepth > 0 && depth+1 > c.opt.MaxDepth {
			return nil, c.fail("parse_error", path, "max depth exceeded")
		}
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			kp := eng.JoinJSONPointer(path, k)
			if _, dup := m[k]; dup {
				si := eng.SimpleIssue{Code: "duplicate_key", Path: kp, Message: "key '" + k + "' duplicated"}
				switch c.opt.OnDuplicate {
				case eng.DupError:
					return nil, eng.IssueError{SimpleIssue: si}
				case eng.DupWarn:
					if c.opt.Warn != nil {
						c.opt.Warn(si)
					}
				}
			}
			v, err := c.node(n.Content[i+1], kp, depth+1)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	case yaml.SequenceNode:
		if c.opt.MaxDepth > 0 && depth+1 > c.opt.MaxDepth {
			return nil, c.fail("parse_error", path, "max depth exceeded")
		}
		arr := make([]any, 0, len(n.Content))
		for i, e := range n.Content {
			v, err := c.node(e, eng.JoinJSONPointer(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return c.scalar(n, path)
	}
	return nil, c.fail("parse_error", path, "unsupported yaml node")
}

func (c yamlConverter) scalar(n *yaml.Node, path string) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!int":
		b, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, c.fail("parse_error", path, "invalid integer "+strconv.Quote(n.Value))
		}
		return json.Number(b.String()), nil
	case "!!float":
		// Integers outside the 64-bit range are tagged !!float by yaml.v3.
		if n.Style == 0 {
			if b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0); ok {
				return json.Number(b.String()), nil
			}
		}
		return c.decode(n, path)
	case "!!bool":
		return c.decode(n, path)
	default:
		return n.Value, nil
	}
}

func (c yamlConverter) decode(n *yaml.Node, path string) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, c.fail("parse_error", path, err.Error())
	}
	return v, nil
}
