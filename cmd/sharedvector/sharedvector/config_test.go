package sharedvector

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	root, err := ioutil.TempDir("", "svcfg")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	path := filepath.Join(root, "config.yml")
	data := `
max_name_length: 40
pool_buffer_sz: 256
max_live: 8
instrument: logger
instrument_config:
  snapshot_ms: 500
`
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))

	configPath = path
	defer func() { configPath = "" }()
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 40, cfg.MaxNameLength)
	assert.Equal(t, 256, cfg.PoolBufferSz)
	assert.Equal(t, 8, cfg.MaxLive)
	assert.Equal(t, "logger", cfg.Instrument)
	assert.Equal(t, 500, cfg.InstrumentConfig["snapshot_ms"])

	a, i, err := NewAllocator("test", cfg)
	assert.NoError(t, err)
	assert.NotNil(t, i)
	assert.Equal(t, "test", a.Id())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 80, cfg.MaxNameLength)
}

func TestLoadConfigUnknownInstrument(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	cfg.Instrument = "trace"
	_, _, err = NewAllocator("test", cfg)
	assert.Error(t, err)
}
