package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}

// Runs against a real database only when PICKUP_TEST_POSTGRES_DSN is set
func TestRoundTrip(t *testing.T) {
	dsn := os.Getenv("PICKUP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PICKUP_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := New(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.ClearAll(ctx))

	require.NoError(t, store.SetMany(ctx, map[string]string{"events": "e", "requests": "r"}))
	v, ok, err := store.GetString(ctx, "events")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "e", v)

	require.NoError(t, store.Set(ctx, "events", "e2"))
	v, _, _ = store.GetString(ctx, "events")
	assert.Equal(t, "e2", v)

	require.NoError(t, store.ClearAll(ctx))
	_, ok, err = store.GetString(ctx, "requests")
	require.NoError(t, err)
	assert.False(t, ok)
}
