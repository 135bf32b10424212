package sharedvector

type nilInstrument struct{}

func NewNilInstrument() Instrument {
	return &nilInstrument{}
}

func (self *nilInstrument) NewInstance(string) InstrumentInstance {
	return &nilInstrumentInstance{}
}

type nilInstrumentInstance struct{}

func (self *nilInstrumentInstance) Allocate(Kind, int)  {}
func (self *nilInstrumentInstance) Acquire(Kind, int)   {}
func (self *nilInstrumentInstance) Recycle(Kind, int)   {}
func (self *nilInstrumentInstance) Exhausted(Kind, int) {}

func (self *nilInstrumentInstance) VectorCreated(Kind)   {}
func (self *nilInstrumentInstance) PoolCreated(Kind, int) {}

func (self *nilInstrumentInstance) Shutdown() {}
