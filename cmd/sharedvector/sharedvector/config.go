package sharedvector

import (
	"io/ioutil"

	sv "github.com/openziti/sharedvector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadConfig returns the default config, overlaid with the YAML file given by --config.
//
func LoadConfig() (*sv.Config, error) {
	cfg := sv.DefaultConfig()
	if configPath != "" {
		data, err := ioutil.ReadFile(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file [%s]", configPath)
		}
		dataMap := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &dataMap); err != nil {
			return nil, errors.Wrapf(err, "unable to unmarshal config data [%s]", configPath)
		}
		if err := cfg.Load(dataMap); err != nil {
			return nil, errors.Wrapf(err, "unable to load config [%s]", configPath)
		}
	}
	if configDump {
		logrus.Info(cfg.Dump())
	}
	return cfg, nil
}

// NewAllocator builds an allocator and its instrument from cfg.
//
func NewAllocator(id string, cfg *sv.Config) (*sv.Allocator, sv.Instrument, error) {
	i, err := sv.NewInstrument(cfg.Instrument, cfg.InstrumentConfig)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create instrument")
	}
	return sv.NewAllocator(id, cfg, i.NewInstance(id)), i, nil
}
