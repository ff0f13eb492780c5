package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(context.Background(), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", i)
			assert.Equal(t, int64(12345), runID, "Goroutine %d: runID should be 12345", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	baseCtx := context.Background()
	ctx1 := withRunID(baseCtx, 1)
	ctx2 := withRunID(baseCtx, 2)

	id1, ok1 := getRunID(ctx1)
	assert.True(t, ok1)
	assert.Equal(t, int64(1), id1)

	id2, ok2 := getRunID(ctx2)
	assert.True(t, ok2)
	assert.Equal(t, int64(2), id2)

	id0, ok0 := getRunID(baseCtx)
	assert.False(t, ok0)
	assert.Equal(t, int64(0), id0)
}

func TestContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), runIDKey, "not an id")
	_, ok := getRunID(ctx)
	assert.False(t, ok)
}
