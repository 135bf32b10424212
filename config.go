package sharedvector

import (
	"github.com/openziti/sharedvector/cf"
	"github.com/pkg/errors"
)

type Config struct {
	MaxNameLength    int                    `cf:"max_name_length"`
	PoolBufferSz     int                    `cf:"pool_buffer_sz"`
	MaxLive          int                    `cf:"max_live"`
	Instrument       string                 `cf:"instrument"`
	InstrumentConfig map[string]interface{} `cf:"instrument_config"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxNameLength: DefaultMaxNameLength,
		PoolBufferSz:  4 * 1024,
		MaxLive:       0,
		Instrument:    "nil",
	}
}

func (self *Config) Load(data map[string]interface{}) error {
	if err := cf.Load(data, self); err != nil {
		return errors.Wrap(err, "unable to load config")
	}
	return self.Validate()
}

func (self *Config) Validate() error {
	if self.MaxNameLength < 0 {
		return errors.Errorf("invalid 'max_name_length' [%d]", self.MaxNameLength)
	}
	if self.PoolBufferSz < 0 {
		return errors.Errorf("invalid 'pool_buffer_sz' [%d]", self.PoolBufferSz)
	}
	if self.MaxLive < 0 {
		return errors.Errorf("invalid 'max_live' [%d]", self.MaxLive)
	}
	return nil
}

func (self *Config) Dump() string {
	return cf.Dump("config", self)
}
