package demo

import (
	"testing"

	sv "github.com/openziti/sharedvector"
	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	for _, kind := range []sv.Kind{sv.RAW, sv.INTEGER, sv.DOUBLE} {
		a := sv.NewAllocator("test", sv.DefaultConfig(), nil)
		assert.NoError(t, run(a, kind))
		assert.Equal(t, 0, a.Live())
	}
}

func TestRunExhausted(t *testing.T) {
	cfg := sv.DefaultConfig()
	cfg.MaxLive = 2
	a := sv.NewAllocator("test", cfg, nil)
	assert.Error(t, run(a, sv.INTEGER))
	assert.Equal(t, 0, a.Live())
}
