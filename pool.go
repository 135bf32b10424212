package sharedvector

import (
	"github.com/pkg/errors"
)

// SharedVectorPool manages several handles as one unit. Slot i is described by handles[i] and cacheLinks[i].
//
// SetHandles and SetCacheLinks replace their sequence wholesale and do not check the other one; a collaborator
// swapping both may leave the pool uneven in between. Validate reports the uneven state.
//
type SharedVectorPool struct {
	kind       Kind
	typeName   string
	handles    []*Handle
	cacheLinks []interface{}
}

func NewSharedVectorPool(kind Kind, maxNameLength int) (*SharedVectorPool, error) {
	typeName, err := kind.PoolTypeName(maxNameLength)
	if err != nil {
		return nil, err
	}
	return &SharedVectorPool{kind: kind, typeName: typeName}, nil
}

// NewPoolFromSingle builds a one-slot pool from v. The slot holds a duplicate of v's handle, so the pool and v manage
// their containers independently while the payload stays a single shared allocation.
//
func NewPoolFromSingle(v *SharedVector, maxNameLength int) (*SharedVectorPool, error) {
	if v == nil {
		return nil, errors.New("nil vector")
	}
	typeName, err := v.Kind().PoolTypeName(maxNameLength)
	if err != nil {
		return nil, err
	}
	return &SharedVectorPool{
		kind:       v.Kind(),
		typeName:   typeName,
		handles:    []*Handle{v.Handle().Dup()},
		cacheLinks: []interface{}{v.CacheLink()},
	}, nil
}

func (self *SharedVectorPool) Kind() Kind {
	return self.kind
}

func (self *SharedVectorPool) TypeName() string {
	return self.typeName
}

func (self *SharedVectorPool) Len() int {
	return len(self.handles)
}

// Handles returns the slot handles by reference.
//
func (self *SharedVectorPool) Handles() []*Handle {
	return self.handles
}

func (self *SharedVectorPool) SetHandles(handles []*Handle) {
	self.handles = handles
}

func (self *SharedVectorPool) CacheLinks() []interface{} {
	return self.cacheLinks
}

func (self *SharedVectorPool) SetCacheLinks(cacheLinks []interface{}) {
	self.cacheLinks = cacheLinks
}

func (self *SharedVectorPool) Validate() error {
	if len(self.handles) != len(self.cacheLinks) {
		return errors.Wrapf(ErrSlotMismatch, "%s [%d handles != %d cache links]", self.typeName, len(self.handles), len(self.cacheLinks))
	}
	return nil
}

// Append adds a slot holding a duplicate of v's handle and v's cache link.
//
func (self *SharedVectorPool) Append(v *SharedVector) error {
	if v == nil {
		return errors.Errorf("cannot add nil vector to %s", self.typeName)
	}
	if err := self.Validate(); err != nil {
		return err
	}
	if v.Kind() != self.kind {
		return errors.Wrapf(ErrInvalidKind, "cannot add %s to %s", v.ClassName(), self.typeName)
	}
	self.handles = append(self.handles, v.Handle().Dup())
	self.cacheLinks = append(self.cacheLinks, v.CacheLink())
	return nil
}

// Vector returns a SharedVector over slot i. The vector owns its own duplicate of the slot handle.
//
func (self *SharedVectorPool) Vector(i int) (*SharedVector, error) {
	if err := self.Validate(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(self.handles) {
		return nil, errors.Errorf("slot [%d] out of range for %s of [%d]", i, self.typeName, len(self.handles))
	}
	if self.handles[i] == nil {
		return nil, errors.Wrapf(ErrNilPayload, "slot [%d] of %s has no handle", i, self.typeName)
	}
	return &SharedVector{
		kind:      self.kind,
		handle:    self.handles[i].Dup(),
		cacheLink: self.cacheLinks[i],
	}, nil
}

func (self *SharedVectorPool) Release() {
	for _, h := range self.handles {
		if h != nil {
			h.Release()
		}
	}
}
