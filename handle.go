package sharedvector

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Handle pairs a payload reference with an optional protector. The protector is held only to keep something the
// payload depends on (typically the buffer it was sliced from) alive for as long as the handle is.
//
// Duplicating a handle copies the two references into a new container; the payload itself is never copied.
//
type Handle struct {
	state atomic.Value
}

// handleState is published as a unit so that readers never observe a payload paired with another payload's protector.
//
type handleState struct {
	payload   *Payload
	protector Referent
}

var releasedState = &handleState{}

func NewHandle(payload *Payload) (*Handle, error) {
	return NewProtectedHandle(payload, nil)
}

func NewProtectedHandle(payload *Payload, protector Referent) (*Handle, error) {
	if payload == nil {
		return nil, errors.Wrap(ErrNilPayload, "new handle")
	}
	h := &Handle{}
	h.publish(payload, protector)
	return h, nil
}

func (self *Handle) load() *handleState {
	if st, ok := self.state.Load().(*handleState); ok {
		return st
	}
	return releasedState
}

func (self *Handle) publish(payload *Payload, protector Referent) {
	payload.Ref()
	if protector != nil {
		protector.Ref()
	}
	self.state.Store(&handleState{payload: payload, protector: protector})
}

// Tag returns the wrapped payload without copying it or taking a reference. Nil once the handle has been released.
// The payload is borrowed: a caller that keeps it past a Set or Release on this handle must Ref it first.
//
func (self *Handle) Tag() *Payload {
	return self.load().payload
}

func (self *Handle) Protector() Referent {
	return self.load().protector
}

func (self *Handle) Len() int {
	if p := self.load().payload; p != nil {
		return p.Len()
	}
	return 0
}

func (self *Handle) Released() bool {
	return self.load().payload == nil
}

// Set replaces both the payload and the protector. The new references are taken before the old ones are dropped, so
// setting a handle to its current payload is safe.
//
func (self *Handle) Set(payload *Payload, protector Referent) error {
	if payload == nil {
		return errors.Wrap(ErrNilPayload, "set handle")
	}
	old := self.load()
	self.publish(payload, protector)
	old.drop()
	return nil
}

// Dup returns a structural duplicate: a distinct handle carrying the same payload and protector references.
//
func (self *Handle) Dup() *Handle {
	st := self.load()
	dup := &Handle{}
	if st.payload == nil {
		dup.state.Store(releasedState)
		return dup
	}
	dup.publish(st.payload, st.protector)
	return dup
}

// Release drops the handle's references. Releasing twice is a no-op.
//
func (self *Handle) Release() {
	old := self.load()
	self.state.Store(releasedState)
	old.drop()
}

func (self *handleState) drop() {
	if self.payload != nil {
		self.payload.Unref()
	}
	if self.protector != nil {
		self.protector.Unref()
	}
}

// Dump describes the handle for diagnostics.
//
func (self *Handle) Dump() string {
	st := self.load()
	out := new(strings.Builder)
	fmt.Fprintf(out, "handle %p {\n", self)
	if st.payload != nil {
		fmt.Fprintf(out, "\tpayload    #%d %p\n", st.payload.Serial(), st.payload)
		fmt.Fprintf(out, "\tkind       %s\n", st.payload.Kind())
		fmt.Fprintf(out, "\tlength     %d\n", st.payload.Len())
		fmt.Fprintf(out, "\trefs       %d\n", st.payload.Refs())
	} else {
		fmt.Fprintf(out, "\tpayload    <released>\n")
	}
	if st.protector != nil {
		fmt.Fprintf(out, "\tprotector  %T %p\n", st.protector, st.protector)
	} else {
		fmt.Fprintf(out, "\tprotector  <nil>\n")
	}
	out.WriteString("}")
	return out.String()
}
