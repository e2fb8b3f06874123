package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCtxFallsBackToGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetGlobalLogger(zerolog.Nop()) })

	Ctx(context.Background()).Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestCtxPrefersContextLogger(t *testing.T) {
	var global, scoped bytes.Buffer
	SetGlobalLogger(zerolog.New(&global))
	t.Cleanup(func() { SetGlobalLogger(zerolog.Nop()) })

	ctx := zerolog.New(&scoped).WithContext(context.Background())
	Ctx(ctx).Info().Msg("scoped")
	require.Contains(t, scoped.String(), "scoped")
	require.Empty(t, global.String())
}
