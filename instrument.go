package sharedvector

import "github.com/pkg/errors"

type Instrument interface {
	NewInstance(id string) InstrumentInstance
}

type InstrumentInstance interface {
	// allocator
	Allocate(kind Kind, sz int)
	Acquire(kind Kind, n int)
	Recycle(kind Kind, n int)
	Exhausted(kind Kind, live int)

	// wrappers
	VectorCreated(kind Kind)
	PoolCreated(kind Kind, slots int)

	// instrument lifecycle
	Shutdown()
}

func NewInstrument(name string, config map[string]interface{}) (i Instrument, err error) {
	switch name {
	case "nil", "":
		return NewNilInstrument(), nil
	case "logger":
		return NewLoggerInstrument(), nil
	case "metrics":
		return NewMetricsInstrument(config)
	default:
		return nil, errors.Errorf("unknown instrument '%s'", name)
	}
}
