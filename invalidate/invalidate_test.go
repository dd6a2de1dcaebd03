package invalidate_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/warepath/invalidate"
)

func TestCounter_AdvanceAndCheck(t *testing.T) {
	var c invalidate.Counter
	require.Equal(t, invalidate.Stamp(0), c.Current())
	require.NoError(t, c.Check(0))

	s := c.Advance("obstacle added")
	require.Equal(t, invalidate.Stamp(1), s)
	require.True(t, c.IsCurrent(s))
	require.False(t, c.IsCurrent(0))

	err := c.Check(0)
	require.ErrorIs(t, err, invalidate.ErrStaleGeneration)
	var stale *invalidate.StaleGenerationError
	require.True(t, errors.As(err, &stale))
	assert.Equal(t, invalidate.Stamp(0), stale.Stamp)
	assert.Equal(t, invalidate.Stamp(1), stale.Current)
	assert.Contains(t, stale.Error(), "generation 0")
}

func TestCounter_ConcurrentAdvance(t *testing.T) {
	var (
		c  invalidate.Counter
		wg sync.WaitGroup
	)
	seen := make([]invalidate.Stamp, 100)
	for i := range seen {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[i] = c.Advance("test")
		}()
	}
	wg.Wait()

	require.Equal(t, invalidate.Stamp(100), c.Current())
	unique := make(map[invalidate.Stamp]bool)
	for _, s := range seen {
		unique[s] = true
	}
	require.Len(t, unique, 100)
}
