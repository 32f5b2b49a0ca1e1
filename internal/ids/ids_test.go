package ids

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID_MonotonicAndUnique(t *testing.T) {
	const n = 200
	seen := make(map[string]bool, n)
	var prev string
	for i := 0; i < n; i++ {
		id := NewULID()
		require.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate ulid %s", id)
		if prev != "" {
			assert.Greater(t, id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestNewULID_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := NewULID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
