package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAside(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	InitRedis(mr.Addr())
	defer func() { client = nil }()
	require.NotNil(t, GetClient())

	ctx := context.Background()
	fetches := 0
	fetch := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, Aside(ctx, "test:key", &first, time.Minute, fetch(&first)))
	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, 1, fetches)

	// Second call is served from the cache without fetching.
	var second []string
	require.NoError(t, Aside(ctx, "test:key", &second, time.Minute, fetch(&second)))
	assert.Equal(t, []string{"a", "b"}, second)
	assert.Equal(t, 1, fetches)

	// TTL expiry triggers a fresh fetch.
	mr.FastForward(61 * time.Second)
	var third []string
	require.NoError(t, Aside(ctx, "test:key", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestAside_NoClientAlwaysFetches(t *testing.T) {
	client = nil

	fetches := 0
	var out []string
	err := Aside(context.Background(), "test:key", &out, time.Minute, func() error {
		fetches++
		out = []string{"x"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out)
	assert.Equal(t, 1, fetches)
}
