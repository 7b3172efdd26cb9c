package ports_test

import (
	"context"
	"testing"

	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/storage"
	"github.com/stretchr/testify/require"
)

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	type doc struct {
		A int `json:"a"`
	}
	_, ok, err := ports.GetJSON[doc](ctx, m, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, ports.SetJSON(ctx, m, "d", doc{A: 3}))
	got, ok, err := ports.GetJSON[doc](ctx, m, "d")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, got.A)

	require.NoError(t, m.Set(ctx, "bad", []byte("{")))
	_, _, err = ports.GetJSON[doc](ctx, m, "bad")
	require.ErrorIs(t, err, ports.ErrDecode)
}
