package influx

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	sv "github.com/openziti/sharedvector"
	"github.com/openziti/sharedvector/util"
	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	root, err := ioutil.TempDir("", "svinflux")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	dir := filepath.Join(root, "demo_1")
	assert.NoError(t, os.MkdirAll(dir, 0755))
	assert.NoError(t, util.WriteMetricsId("sharedvector.1", dir, map[string]string{"allocator": "demo"}))
	now := time.Now()
	for _, dataset := range sv.MetricsDatasets {
		assert.NoError(t, util.WriteSamples(dataset, dir, []*util.Sample{{Ts: now, V: 1}, {Ts: now.Add(time.Second), V: 2}}))
	}

	var points []*write.Point
	assert.NoError(t, load(root, func(p *write.Point) { points = append(points, p) }))
	assert.Equal(t, 2*len(sv.MetricsDatasets), len(points))
	for _, p := range points {
		tags := make(map[string]string)
		for _, tag := range p.TagList() {
			tags[tag.Key] = tag.Value
		}
		assert.Equal(t, "demo", tags["allocator"])
		assert.Equal(t, "sharedvector.1", tags["type"])
	}
}

func TestLoadMissingDataset(t *testing.T) {
	root, err := ioutil.TempDir("", "svinflux")
	assert.NoError(t, err)
	defer func() { _ = os.RemoveAll(root) }()

	assert.NoError(t, util.WriteMetricsId("sharedvector.1", root, nil))
	assert.Error(t, load(root, func(*write.Point) {}))
}
