package dataset

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

type countingSource struct {
	calls atomic.Int32
	data  *Data
	err   error
}

func (s *countingSource) Load() (*Data, error) {
	s.calls.Add(1)
	return s.data, s.err
}

func TestCacheLoadsOnce(t *testing.T) {
	src := &countingSource{data: &Data{Priority: []PriorityRecord{{Store: "1"}}}}
	cache := NewCache(src)
	assert.False(t, cache.Loaded())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Load()
			assert.NoError(t, err)
			assert.Len(t, data.Priority, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, cache.Loaded())
}

func TestCacheKeepsFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &countingSource{err: boom}
	cache := NewCache(src)

	_, err := cache.Load()
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = cache.Load()
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int32(1), src.calls.Load())
	assert.False(t, cache.Loaded())
}
