package sharedvector

import (
	"sync/atomic"

	"github.com/openziti/sharedvector/util"
	"github.com/pkg/errors"
)

// Referent is anything whose lifetime is extended by holding a reference to it.
//
type Referent interface {
	Ref()
	Unref()
}

var serials = util.NewSequence(1)

// Payload is a fixed-length, logically immutable block of elements. It is never copied once constructed; every
// wrapper that observes it holds a reference instead.
//
// Anyone else holding a *Payload is borrowing it. When the payload came from an Allocator, its backing array is
// recycled once the last reference goes, so a borrower that outlives the wrappers must hold its own Ref.
//
type Payload struct {
	kind     Kind
	serial   int32
	raw      []byte
	ints     []int32
	doubles  []float64
	refs     int32
	released int32
	release  func(*Payload)
}

// NewRawPayload wraps data without copying it. The caller must not modify data afterwards.
//
func NewRawPayload(data []byte) *Payload {
	return &Payload{kind: RAW, serial: serials.Next(), raw: data}
}

func NewIntegerPayload(data []int32) *Payload {
	return &Payload{kind: INTEGER, serial: serials.Next(), ints: data}
}

func NewDoublePayload(data []float64) *Payload {
	return &Payload{kind: DOUBLE, serial: serials.Next(), doubles: data}
}

func (self *Payload) Kind() Kind {
	return self.kind
}

func (self *Payload) Serial() int32 {
	return self.serial
}

func (self *Payload) Len() int {
	switch self.kind {
	case RAW:
		return len(self.raw)
	case INTEGER:
		return len(self.ints)
	case DOUBLE:
		return len(self.doubles)
	default:
		return 0
	}
}

// Bytes returns the backing data of a RAW payload, or nil for any other kind. The slice must be treated as read-only.
//
func (self *Payload) Bytes() []byte {
	return self.raw
}

func (self *Payload) Ints() []int32 {
	return self.ints
}

func (self *Payload) Doubles() []float64 {
	return self.doubles
}

func (self *Payload) Refs() int32 {
	return atomic.LoadInt32(&self.refs)
}

func (self *Payload) Ref() {
	atomic.AddInt32(&self.refs, 1)
}

// Unref drops a reference. When the last one goes, the release hook (if any) runs exactly once.
//
func (self *Payload) Unref() {
	if atomic.AddInt32(&self.refs, -1) < 1 {
		if self.release != nil && atomic.CompareAndSwapInt32(&self.released, 0, 1) {
			self.release(self)
		}
	}
}

// Slice returns a view of elements [start, end) sharing this payload's backing array. The view does not keep this
// payload alive on its own; pin it with a protected handle (see SharedVector.View).
//
func (self *Payload) Slice(start, end int) (*Payload, error) {
	if start < 0 || end < start || end > self.Len() {
		return nil, errors.Errorf("slice [%d:%d] out of range for length [%d]", start, end, self.Len())
	}
	view := &Payload{kind: self.kind, serial: serials.Next()}
	switch self.kind {
	case RAW:
		view.raw = self.raw[start:end:end]
	case INTEGER:
		view.ints = self.ints[start:end:end]
	case DOUBLE:
		view.doubles = self.doubles[start:end:end]
	default:
		return nil, errors.Wrapf(ErrInvalidKind, "cannot slice kind [%d]", uint8(self.kind))
	}
	return view, nil
}
