package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognitive-shield/sentinel/internal/infrastructure/db"
)

func openMemory(t *testing.T) *db.Database {
	t.Helper()
	d, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.Migrate())
	return d
}

func TestSQLStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := db.NewSQLStore(openMemory(t))

	_, ok, err := s.Get(ctx, "sentinel_result")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "sentinel_result", []byte(`{"status":"green"}`)))
	require.NoError(t, s.Set(ctx, "sentinel_result", []byte(`{"status":"red"}`)))

	got, ok, err := s.Get(ctx, "sentinel_result")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"status":"red"}`, string(got))

	require.NoError(t, s.Delete(ctx, "sentinel_result"))
	require.NoError(t, s.Delete(ctx, "sentinel_result"))
	_, ok, err = s.Get(ctx, "sentinel_result")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sentinel.db")

	d, err := db.NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, d.Migrate())
	require.NoError(t, db.NewSQLStore(d).Set(ctx, "visitLog", []byte(`[{"domain":"example.com","t":1}]`)))
	require.NoError(t, d.Close())

	d, err = db.NewSQLite(path)
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.Migrate())

	got, ok, err := db.NewSQLStore(d).Get(ctx, "visitLog")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"domain":"example.com","t":1}]`, string(got))
}
