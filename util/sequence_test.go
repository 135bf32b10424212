package util

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceNext(t *testing.T) {
	s := NewSequence(1)
	assert.Equal(t, int32(1), s.Next())
	assert.Equal(t, int32(2), s.Next())
	assert.Equal(t, int32(2), s.Last())
}

func TestSequenceWrap(t *testing.T) {
	s := NewSequence(math.MaxInt32)
	assert.Equal(t, int32(math.MaxInt32), s.Next())
	assert.Equal(t, int32(0), s.Next())
}

func TestSequenceConcurrent(t *testing.T) {
	s := NewSequence(0)
	seen := make(map[int32]struct{})
	lock := new(sync.Mutex)
	wg := new(sync.WaitGroup)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				v := s.Next()
				lock.Lock()
				seen[v] = struct{}{}
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, len(seen))
}
