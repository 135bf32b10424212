package sharedvector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind selects how the elements of a payload are interpreted.
//
type Kind uint8

const (
	RAW Kind = iota
	INTEGER
	DOUBLE
)

// DefaultMaxNameLength bounds derived pool type names, including the terminator slot.
const DefaultMaxNameLength = 80

const poolSuffix = "_Pool"

func (k Kind) Valid() bool {
	return k <= DOUBLE
}

// ClassName returns the wrapper class name for the kind ("SharedRaw", "SharedInteger", "SharedDouble").
//
func (k Kind) ClassName() string {
	switch k {
	case RAW:
		return "SharedRaw"
	case INTEGER:
		return "SharedInteger"
	case DOUBLE:
		return "SharedDouble"
	default:
		return fmt.Sprintf("Shared?%d", uint8(k))
	}
}

func (k Kind) String() string {
	switch k {
	case RAW:
		return "raw"
	case INTEGER:
		return "integer"
	case DOUBLE:
		return "double"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ElementSize is the width in bytes of a single element of the kind.
//
func (k Kind) ElementSize() int {
	switch k {
	case RAW:
		return 1
	case INTEGER:
		return 4
	case DOUBLE:
		return 8
	default:
		return 0
	}
}

// PoolTypeName derives the pool type name for the kind. A name that would not fit into a buffer of maxNameLength
// (terminator included) fails with ErrNameTooLong rather than being truncated.
//
func (k Kind) PoolTypeName(maxNameLength int) (string, error) {
	if !k.Valid() {
		return "", errors.Wrapf(ErrInvalidKind, "no pool type for kind [%d]", uint8(k))
	}
	if maxNameLength <= 0 {
		maxNameLength = DefaultMaxNameLength
	}
	name := k.ClassName() + poolSuffix
	if len(name) >= maxNameLength {
		return "", errors.Wrapf(ErrNameTooLong, "internal error deriving pool type for [%s] (%d >= %d)", k.ClassName(), len(name), maxNameLength)
	}
	return name, nil
}

// ParseKind accepts either the short kind name ("integer") or the class name ("SharedInteger").
//
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{RAW, INTEGER, DOUBLE} {
		if s == k.String() || s == k.ClassName() {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidKind, "unknown kind '%s'", s)
}
