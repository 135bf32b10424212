package util

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadSamples(t *testing.T) {
	root, err := ioutil.TempDir("", "samples")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	now := time.Now()
	samples := []*Sample{{now, 1}, {now.Add(time.Second), 42}, {now.Add(2 * time.Second), -3}}
	assert.NoError(t, WriteSamples("live", root, samples))

	in, err := ReadSamples(filepath.Join(root, "live.csv"))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(in))
	for i := range samples {
		assert.Equal(t, samples[i].Ts.UnixNano(), in[i].Ts.UnixNano())
		assert.Equal(t, samples[i].V, in[i].V)
	}
}

func TestReadSamplesMalformed(t *testing.T) {
	root, err := ioutil.TempDir("", "samples")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	path := filepath.Join(root, "bad.csv")
	assert.NoError(t, ioutil.WriteFile(path, []byte("1,2\n3\n"), 0644))
	_, err = ReadSamples(path)
	assert.Error(t, err)
}

func TestDiscoverMetrics(t *testing.T) {
	root, err := ioutil.TempDir("", "metrics")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	a := filepath.Join(root, "a")
	b := filepath.Join(root, "nested", "b")
	assert.NoError(t, os.MkdirAll(a, 0755))
	assert.NoError(t, os.MkdirAll(b, 0755))
	assert.NoError(t, WriteMetricsId("sharedvector.1", a, nil))
	assert.NoError(t, WriteMetricsId("sharedvector.1", b, map[string]string{"allocator": "b"}))

	found, err := DiscoverMetrics(root)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(found))
	assert.Equal(t, "sharedvector.1", found[a].Id)
	assert.Equal(t, "b", found[b].Values["allocator"])
}
