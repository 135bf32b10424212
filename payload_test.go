package sharedvector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadKinds(t *testing.T) {
	raw := NewRawPayload([]byte{0x01, 0x02})
	assert.Equal(t, RAW, raw.Kind())
	assert.Equal(t, 2, raw.Len())
	assert.Nil(t, raw.Ints())

	ints := NewIntegerPayload([]int32{1, 2, 3})
	assert.Equal(t, INTEGER, ints.Kind())
	assert.Equal(t, 3, ints.Len())
	assert.Nil(t, ints.Bytes())

	doubles := NewDoublePayload([]float64{1.0})
	assert.Equal(t, DOUBLE, doubles.Kind())
	assert.Equal(t, 1, doubles.Len())

	assert.NotEqual(t, raw.Serial(), ints.Serial())
}

func TestPayloadReleaseOnce(t *testing.T) {
	p := NewRawPayload(make([]byte, 16))
	released := 0
	p.release = func(*Payload) { released++ }

	p.Ref()
	p.Ref()
	p.Unref()
	assert.Equal(t, 0, released)
	p.Unref()
	assert.Equal(t, 1, released)
	p.Ref()
	p.Unref()
	assert.Equal(t, 1, released)
}

func TestPayloadConcurrentRefs(t *testing.T) {
	p := NewIntegerPayload([]int32{1})
	released := 0
	p.release = func(*Payload) { released++ }
	p.Ref()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				p.Ref()
				p.Unref()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), p.Refs())
	assert.Equal(t, 0, released)
	p.Unref()
	assert.Equal(t, 1, released)
}

func TestPayloadSliceSharesData(t *testing.T) {
	data := []float64{1.0, 2.0, 3.0, 4.0}
	p := NewDoublePayload(data)
	view, err := p.Slice(1, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, view.Len())
	assert.Equal(t, DOUBLE, view.Kind())
	assert.Same(t, &data[1], &view.Doubles()[0])
	assert.Equal(t, 2, cap(view.Doubles()))

	empty, err := p.Slice(4, 4)
	assert.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = p.Slice(-1, 2)
	assert.Error(t, err)
	_, err = p.Slice(0, 5)
	assert.Error(t, err)
}
