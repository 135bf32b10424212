package sharedvector

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPoolFromSingle(t *testing.T) {
	p := NewRawPayload([]byte{0x0a, 0x0b})
	v, err := NewSharedVector(RAW, p)
	assert.NoError(t, err)
	link := &struct{ cached []byte }{[]byte{0x0a}}
	v.SetCacheLink(link)

	pool, err := NewPoolFromSingle(v, 0)
	assert.NoError(t, err)
	assert.Equal(t, RAW, pool.Kind())
	assert.Equal(t, "SharedRaw_Pool", pool.TypeName())
	assert.Equal(t, 1, len(pool.Handles()))
	assert.Equal(t, 1, len(pool.CacheLinks()))
	assert.NoError(t, pool.Validate())

	slot := pool.Handles()[0]
	assert.NotSame(t, v.Handle(), slot)
	assert.Same(t, v.Tag(), slot.Tag())
	assert.Same(t, link, pool.CacheLinks()[0])
	assert.Equal(t, int32(2), p.Refs())
}

func TestPoolFromSingleIndependentContainers(t *testing.T) {
	p := NewIntegerPayload([]int32{1, 2, 3})
	v, err := NewSharedVector(INTEGER, p)
	assert.NoError(t, err)
	pool, err := NewPoolFromSingle(v, DefaultMaxNameLength)
	assert.NoError(t, err)

	other := NewIntegerPayload([]int32{7})
	assert.NoError(t, pool.Handles()[0].Set(other, nil))
	assert.Same(t, p, v.Tag())
	assert.Equal(t, 3, v.Len())

	v.Release()
	assert.Same(t, other, pool.Handles()[0].Tag())
	assert.Equal(t, int32(0), p.Refs())
}

func TestPoolFromSingleOutlivesVector(t *testing.T) {
	p := NewDoublePayload([]float64{0.25})
	v, err := NewSharedVector(DOUBLE, p)
	assert.NoError(t, err)
	pool, err := NewPoolFromSingle(v, DefaultMaxNameLength)
	assert.NoError(t, err)

	v.Release()
	assert.Same(t, p, pool.Handles()[0].Tag())
	assert.Equal(t, int32(1), p.Refs())

	pool.Release()
	assert.Equal(t, int32(0), p.Refs())
}

func TestPoolFromSingleNameTooLong(t *testing.T) {
	p := NewIntegerPayload([]int32{1})
	v, err := NewSharedVector(INTEGER, p)
	assert.NoError(t, err)

	// "SharedInteger_Pool" is 18 characters; a buffer of 18 has no room for the terminator
	pool, err := NewPoolFromSingle(v, 18)
	assert.Nil(t, pool)
	assert.True(t, errors.Is(err, ErrNameTooLong))
	assert.Equal(t, int32(1), p.Refs())

	pool, err = NewPoolFromSingle(v, 19)
	assert.NoError(t, err)
	assert.Equal(t, "SharedInteger_Pool", pool.TypeName())
}

func TestPoolFromSingleNil(t *testing.T) {
	pool, err := NewPoolFromSingle(nil, 0)
	assert.Nil(t, pool)
	assert.Error(t, err)
}

func TestPoolSetters(t *testing.T) {
	pool, err := NewSharedVectorPool(DOUBLE, 0)
	assert.NoError(t, err)
	assert.Equal(t, "SharedDouble_Pool", pool.TypeName())
	assert.Equal(t, 0, pool.Len())
	assert.NoError(t, pool.Validate())

	h, err := NewHandle(NewDoublePayload([]float64{1.0}))
	assert.NoError(t, err)
	handles := []*Handle{h}
	pool.SetHandles(handles)
	assert.Equal(t, 1, pool.Len())
	assert.Same(t, h, pool.Handles()[0])
	assert.True(t, errors.Is(pool.Validate(), ErrSlotMismatch))

	pool.SetCacheLinks([]interface{}{nil})
	assert.NoError(t, pool.Validate())
}

func TestPoolAppendAndVector(t *testing.T) {
	pool, err := NewSharedVectorPool(INTEGER, 0)
	assert.NoError(t, err)

	p0 := NewIntegerPayload([]int32{1})
	p1 := NewIntegerPayload([]int32{2, 3})
	v0, _ := NewSharedVector(INTEGER, p0)
	v1, _ := NewSharedVector(INTEGER, p1)
	v1.SetCacheLink("link")
	assert.NoError(t, pool.Append(v0))
	assert.NoError(t, pool.Append(v1))
	assert.Equal(t, 2, pool.Len())
	assert.Equal(t, 2, len(pool.CacheLinks()))
	assert.Same(t, p1, pool.Handles()[1].Tag())

	out, err := pool.Vector(1)
	assert.NoError(t, err)
	assert.Same(t, p1, out.Tag())
	assert.Equal(t, "link", out.CacheLink())
	assert.NotSame(t, pool.Handles()[1], out.Handle())
	assert.Equal(t, int32(3), p1.Refs())

	_, err = pool.Vector(2)
	assert.Error(t, err)

	raw, _ := NewSharedVector(RAW, NewRawPayload([]byte{0x01}))
	assert.True(t, errors.Is(pool.Append(raw), ErrInvalidKind))

	pool.SetCacheLinks(nil)
	assert.True(t, errors.Is(pool.Append(v0), ErrSlotMismatch))
	_, err = pool.Vector(0)
	assert.True(t, errors.Is(err, ErrSlotMismatch))
}

func TestPoolNilSlots(t *testing.T) {
	pool, err := NewSharedVectorPool(RAW, 0)
	assert.NoError(t, err)
	assert.Error(t, pool.Append(nil))
	assert.Equal(t, 0, pool.Len())

	pool.SetHandles([]*Handle{nil})
	pool.SetCacheLinks([]interface{}{nil})
	assert.NotPanics(t, func() {
		_, err = pool.Vector(0)
	})
	assert.True(t, errors.Is(err, ErrNilPayload))
	assert.NotPanics(t, pool.Release)
}

func TestNewSharedVectorPoolInvalidKind(t *testing.T) {
	pool, err := NewSharedVectorPool(Kind(3), 0)
	assert.Nil(t, pool)
	assert.True(t, errors.Is(err, ErrInvalidKind))
}
