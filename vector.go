package sharedvector

import (
	"github.com/pkg/errors"
)

// SharedVector wraps exactly one handle, which it owns exclusively. The payload inside that handle may be shared
// with any number of other vectors and pool slots.
//
// A SharedVector is single-writer: SetTag and SetCacheLink must be serialized by the caller against readers.
//
type SharedVector struct {
	kind      Kind
	handle    *Handle
	cacheLink interface{}
}

// NewSharedVector wraps payload without duplicating it. Nothing is constructed when the kind is invalid or does not
// match the payload.
//
func NewSharedVector(kind Kind, payload *Payload) (*SharedVector, error) {
	if err := checkKind(kind, payload); err != nil {
		return nil, err
	}
	h, err := NewHandle(payload)
	if err != nil {
		return nil, err
	}
	return &SharedVector{kind: kind, handle: h}, nil
}

func checkKind(kind Kind, payload *Payload) error {
	if !kind.Valid() {
		return errors.Wrapf(ErrInvalidKind, "unknown kind [%d]", uint8(kind))
	}
	if payload == nil {
		return errors.Wrapf(ErrNilPayload, "wrapping %s", kind.ClassName())
	}
	if payload.Kind() != kind {
		return errors.Wrapf(ErrInvalidKind, "%s payload for %s", payload.Kind(), kind.ClassName())
	}
	return nil
}

func (self *SharedVector) Kind() Kind {
	return self.kind
}

func (self *SharedVector) ClassName() string {
	return self.kind.ClassName()
}

func (self *SharedVector) Handle() *Handle {
	return self.handle
}

// Tag returns the borrowed payload. See Handle.Tag.
//
func (self *SharedVector) Tag() *Payload {
	return self.handle.Tag()
}

// Acquire returns the payload with a reference taken on the caller's behalf, or nil for a released vector. The
// caller owns that reference and must Unref it.
//
func (self *SharedVector) Acquire() *Payload {
	st := self.handle.load()
	if st.payload == nil {
		return nil
	}
	st.payload.Ref()
	return st.payload
}

func (self *SharedVector) Len() int {
	return self.handle.Len()
}

// SetTag points the vector at another payload through a fresh handle. The previous handle is released; the previous
// payload itself is left untouched and lives on for any other holder.
//
func (self *SharedVector) SetTag(payload *Payload) error {
	if err := checkKind(self.kind, payload); err != nil {
		return err
	}
	h, err := NewHandle(payload)
	if err != nil {
		return err
	}
	old := self.handle
	self.handle = h
	old.Release()
	return nil
}

func (self *SharedVector) CacheLink() interface{} {
	return self.cacheLink
}

func (self *SharedVector) SetCacheLink(link interface{}) {
	self.cacheLink = link
}

// View returns a vector over elements [start, end) of this vector's payload. The view shares the backing data and
// uses this vector's payload as its protector, so the data outlives this vector if the view does.
//
func (self *SharedVector) View(start, end int) (*SharedVector, error) {
	parent := self.handle.Tag()
	if parent == nil {
		return nil, errors.Wrap(ErrNilPayload, "view of released vector")
	}
	payload, err := parent.Slice(start, end)
	if err != nil {
		return nil, err
	}
	h, err := NewProtectedHandle(payload, parent)
	if err != nil {
		return nil, err
	}
	return &SharedVector{kind: self.kind, handle: h}, nil
}

func (self *SharedVector) Release() {
	self.handle.Release()
}
