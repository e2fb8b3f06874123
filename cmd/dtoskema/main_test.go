package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/dtoskema/source"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions("warn", -1)
	require.NoError(t, err)
	require.Equal(t, source.DuplicateWarn, opts.OnDuplicate)
	require.Equal(t, -1, opts.MaxDepth)

	_, err = parseOptions("loud", 0)
	require.Error(t, err)
}

func TestGuessFormat(t *testing.T) {
	require.Equal(t, "yaml", guessFormat("conf/app.YML"))
	require.Equal(t, "json", guessFormat("-"))
}

func TestDecode(t *testing.T) {
	ctx := context.Background()
	v, err := decode(ctx, "yaml", []byte("a: 1\nb: [x]\n"), source.Options{})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": json.Number("1"), "b": []any{"x"}}, v)

	_, err = decode(ctx, "json", []byte(`{"a":1,"a":2}`), source.Options{})
	require.Error(t, err)

	_, err = decode(ctx, "toml", nil, source.Options{})
	require.EqualError(t, err, `unknown format "toml"`)
}
