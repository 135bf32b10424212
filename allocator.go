package sharedvector

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Allocator hands out payloads. Requests up to PoolBufferSz elements are carved from fixed-size backing arrays kept
// in a per-kind sync.Pool; the backing array goes back to the pool when the payload's last reference is dropped.
//
// Every payload is a new *Payload, so identity is never reused even when the backing array is. Its contents are a
// different matter: once the last reference is dropped the array may be zeroed and handed out again. A payload
// observed outside a wrapper (Tag, Handles) is borrowed, and must be Ref'd by whoever needs it to stay valid.
//
// PoolBufferSz is fixed when the allocator is created; later changes to the config do not affect it.
//
type Allocator struct {
	id       string
	config   *Config
	bufferSz int
	ii       InstrumentInstance
	stores   [DOUBLE + 1]*sync.Pool
	live     int32
}

func NewAllocator(id string, config *Config, ii InstrumentInstance) *Allocator {
	if config == nil {
		config = DefaultConfig()
	}
	if ii == nil {
		ii = NewNilInstrument().NewInstance(id)
	}
	a := &Allocator{id: id, config: config, bufferSz: config.PoolBufferSz, ii: ii}
	for k := RAW; k <= DOUBLE; k++ {
		kind := k
		store := new(sync.Pool)
		store.New = func() interface{} { return a.allocate(kind) }
		a.stores[kind] = store
	}
	return a
}

func (self *Allocator) Id() string {
	return self.id
}

func (self *Allocator) Config() *Config {
	return self.config
}

// Live is the number of payloads handed out and not yet released.
//
func (self *Allocator) Live() int {
	return int(atomic.LoadInt32(&self.live))
}

func (self *Allocator) allocate(kind Kind) interface{} {
	self.ii.Allocate(kind, self.bufferSz)
	switch kind {
	case RAW:
		return make([]byte, self.bufferSz)
	case INTEGER:
		return make([]int32, self.bufferSz)
	default:
		return make([]float64, self.bufferSz)
	}
}

// Allocate returns a zeroed payload of n elements carrying one reference, which belongs to the caller.
//
func (self *Allocator) Allocate(kind Kind, n int) (*Payload, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrInvalidKind, "[%s] cannot allocate kind [%d]", self.id, uint8(kind))
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrAllocation, "[%s] negative length [%d]", self.id, n)
	}
	if err := self.reserve(kind); err != nil {
		return nil, err
	}

	p := &Payload{kind: kind, serial: serials.Next(), refs: 1}
	pooled := n <= self.bufferSz
	switch kind {
	case RAW:
		if pooled {
			p.raw = self.stores[kind].Get().([]byte)[:n]
			for i := range p.raw {
				p.raw[i] = 0
			}
		} else {
			p.raw = make([]byte, n)
		}
	case INTEGER:
		if pooled {
			p.ints = self.stores[kind].Get().([]int32)[:n]
			for i := range p.ints {
				p.ints[i] = 0
			}
		} else {
			p.ints = make([]int32, n)
		}
	case DOUBLE:
		if pooled {
			p.doubles = self.stores[kind].Get().([]float64)[:n]
			for i := range p.doubles {
				p.doubles[i] = 0
			}
		} else {
			p.doubles = make([]float64, n)
		}
	}
	if pooled {
		p.release = self.recycle
	} else {
		p.release = self.forget
	}
	self.ii.Acquire(kind, n)
	return p, nil
}

func (self *Allocator) reserve(kind Kind) error {
	for {
		live := atomic.LoadInt32(&self.live)
		if self.config.MaxLive > 0 && int(live) >= self.config.MaxLive {
			self.ii.Exhausted(kind, int(live))
			return errors.Wrapf(ErrAllocation, "[%s] live payload limit reached [%d]", self.id, self.config.MaxLive)
		}
		if atomic.CompareAndSwapInt32(&self.live, live, live+1) {
			return nil
		}
	}
}

func (self *Allocator) recycle(p *Payload) {
	switch p.kind {
	case RAW:
		self.stores[RAW].Put(p.raw[:cap(p.raw)])
	case INTEGER:
		self.stores[INTEGER].Put(p.ints[:cap(p.ints)])
	case DOUBLE:
		self.stores[DOUBLE].Put(p.doubles[:cap(p.doubles)])
	}
	self.forget(p)
}

func (self *Allocator) forget(p *Payload) {
	atomic.AddInt32(&self.live, -1)
	self.ii.Recycle(p.kind, p.Len())
}

// CopyRaw is the one place raw data is copied: into a fresh payload, before any wrapper sees it.
//
func (self *Allocator) CopyRaw(data []byte) (*Payload, error) {
	p, err := self.Allocate(RAW, len(data))
	if err != nil {
		return nil, err
	}
	copy(p.raw, data)
	return p, nil
}

func (self *Allocator) CopyIntegers(data []int32) (*Payload, error) {
	p, err := self.Allocate(INTEGER, len(data))
	if err != nil {
		return nil, err
	}
	copy(p.ints, data)
	return p, nil
}

func (self *Allocator) CopyDoubles(data []float64) (*Payload, error) {
	p, err := self.Allocate(DOUBLE, len(data))
	if err != nil {
		return nil, err
	}
	copy(p.doubles, data)
	return p, nil
}

// NewVector allocates a payload of n elements and wraps it. The vector is the payload's sole holder.
//
func (self *Allocator) NewVector(kind Kind, n int) (*SharedVector, error) {
	p, err := self.Allocate(kind, n)
	if err != nil {
		return nil, err
	}
	return self.Wrap(kind, p)
}

// Wrap wraps a payload this caller holds a reference to, transferring that reference to the new vector.
//
func (self *Allocator) Wrap(kind Kind, p *Payload) (*SharedVector, error) {
	v, err := NewSharedVector(kind, p)
	if p != nil {
		p.Unref()
	}
	if err != nil {
		return nil, err
	}
	self.ii.VectorCreated(kind)
	return v, nil
}

// NewPool allocates count payloads of n elements as a single pool. Either the whole pool is produced, or every
// payload allocated by the call is released again.
//
func (self *Allocator) NewPool(kind Kind, count, n int) (*SharedVectorPool, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrAllocation, "[%s] negative slot count [%d]", self.id, count)
	}
	pool, err := NewSharedVectorPool(kind, self.config.MaxNameLength)
	if err != nil {
		return nil, err
	}
	handles := make([]*Handle, 0, count)
	for i := 0; i < count; i++ {
		p, err := self.Allocate(kind, n)
		if err != nil {
			for _, h := range handles {
				h.Release()
			}
			return nil, errors.Wrapf(err, "[%s] allocating slot [%d] of %s", self.id, i, pool.TypeName())
		}
		h, err := NewHandle(p)
		p.Unref()
		if err != nil {
			for _, h := range handles {
				h.Release()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	pool.SetHandles(handles)
	pool.SetCacheLinks(make([]interface{}, count))
	self.ii.PoolCreated(kind, count)
	return pool, nil
}

// PoolFromSingle is NewPoolFromSingle bounded by this allocator's configured name length.
//
func (self *Allocator) PoolFromSingle(v *SharedVector) (*SharedVectorPool, error) {
	pool, err := NewPoolFromSingle(v, self.config.MaxNameLength)
	if err != nil {
		return nil, err
	}
	self.ii.PoolCreated(pool.Kind(), pool.Len())
	return pool, nil
}

func (self *Allocator) Shutdown() {
	self.ii.Shutdown()
}
