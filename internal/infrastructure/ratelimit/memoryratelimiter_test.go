package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiterAllows(t *testing.T) {
	l := NewMemoryRateLimiter()
	defer l.Close()

	for i := 0; i < 60; i++ {
		ok, err := l.Allow("tok-1", 60)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := l.Allow("tok-1", 60)
	require.NoError(t, err)
	assert.False(t, ok, "request 61 must be rejected")
}

func TestMemoryRateLimiterIsolatesKeys(t *testing.T) {
	l := NewMemoryRateLimiter()
	defer l.Close()

	for i := 0; i < 60; i++ {
		_, err := l.Allow("tok-1", 60)
		require.NoError(t, err)
	}

	ok, err := l.Allow("tok-2", 60)
	require.NoError(t, err)
	assert.True(t, ok, "a different token has its own window")
}

func TestMemoryRateLimiterReset(t *testing.T) {
	l := NewMemoryRateLimiter()
	defer l.Close()

	for i := 0; i < 60; i++ {
		_, err := l.Allow("tok-1", 60)
		require.NoError(t, err)
	}

	require.NoError(t, l.Reset("tok-1"))

	ok, err := l.Allow("tok-1", 60)
	require.NoError(t, err)
	assert.True(t, ok)
}
