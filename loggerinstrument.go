package sharedvector

import (
	"github.com/sirupsen/logrus"
)

type loggerInstrument struct{}

func NewLoggerInstrument() Instrument {
	return &loggerInstrument{}
}

func (self *loggerInstrument) NewInstance(id string) InstrumentInstance {
	return &loggerInstrumentInstance{log: logrus.WithField("context", id)}
}

type loggerInstrumentInstance struct {
	log *logrus.Entry
}

func (self *loggerInstrumentInstance) Allocate(kind Kind, sz int) {
	self.log.Infof("allocate [%s/%d]", kind, sz)
}

func (self *loggerInstrumentInstance) Acquire(kind Kind, n int) {
	self.log.Debugf("+ [%s/%d]", kind, n)
}

func (self *loggerInstrumentInstance) Recycle(kind Kind, n int) {
	self.log.Debugf("- [%s/%d]", kind, n)
}

func (self *loggerInstrumentInstance) Exhausted(kind Kind, live int) {
	self.log.Warnf("exhausted [%s], live [%d]", kind, live)
}

func (self *loggerInstrumentInstance) VectorCreated(kind Kind) {
	self.log.Debugf("new %s", kind.ClassName())
}

func (self *loggerInstrumentInstance) PoolCreated(kind Kind, slots int) {
	self.log.Debugf("new %s%s [%d slots]", kind.ClassName(), poolSuffix, slots)
}

func (self *loggerInstrumentInstance) Shutdown() {
	self.log.Info("shutdown")
}
