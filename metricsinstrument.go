package sharedvector

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/openziti/sharedvector/cf"
	"github.com/openziti/sharedvector/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const metricsVersion = 1

type metricsInstrument struct {
	lock      sync.Mutex
	config    *metricsInstrumentConfig
	enabled   int32
	instances []*metricsInstrumentInstance
	cl        *util.CtrlListener
}

type metricsInstrumentConfig struct {
	Path       string `cf:"path"`
	SnapshotMs int    `cf:"snapshot_ms"`
	Enabled    bool   `cf:"enabled"`
}

// NewMetricsInstrument samples allocator activity every snapshot_ms. When a path is configured, a control socket is
// opened there accepting "start", "stop", "write" and "clean".
//
func NewMetricsInstrument(config map[string]interface{}) (Instrument, error) {
	i := &metricsInstrument{
		config: &metricsInstrumentConfig{
			SnapshotMs: 1000,
		},
	}
	if err := cf.Load(config, i.config); err != nil {
		return nil, errors.Wrap(err, "unable to load metrics config")
	}
	if i.config.SnapshotMs < 1 {
		return nil, errors.Errorf("invalid 'snapshot_ms' [%d]", i.config.SnapshotMs)
	}
	i.setEnabled(i.config.Enabled)
	if i.config.Path != "" {
		if err := i.addCtrlListener(); err != nil {
			return nil, err
		}
	}
	logrus.Info(cf.Dump("metrics", i.config))
	return i, nil
}

func (self *metricsInstrument) addCtrlListener() error {
	cl, err := util.GetCtrlListener(self.config.Path, "sharedvector")
	if err != nil {
		return errors.Wrap(err, "unable to get metrics ctrl listener")
	}
	cl.AddCallback("start", func(string) error {
		self.setEnabled(true)
		return nil
	})
	cl.AddCallback("stop", func(string) error {
		self.setEnabled(false)
		return nil
	})
	cl.AddCallback("write", func(string) error {
		return self.WriteAllSamples()
	})
	cl.AddCallback("clean", func(string) error {
		self.clean()
		return nil
	})
	cl.Start()
	self.cl = cl
	return nil
}

func (self *metricsInstrument) setEnabled(enabled bool) {
	v := int32(0)
	if enabled {
		v = 1
	}
	atomic.StoreInt32(&self.enabled, v)
}

func (self *metricsInstrument) isEnabled() bool {
	return atomic.LoadInt32(&self.enabled) == 1
}

func (self *metricsInstrument) NewInstance(id string) InstrumentInstance {
	self.lock.Lock()
	defer self.lock.Unlock()
	ii := &metricsInstrumentInstance{
		id:     id,
		i:      self,
		close:  make(chan struct{}),
		series: treemap.NewWithStringComparator(),
	}
	go ii.snapshotter(self.config.SnapshotMs)
	self.instances = append(self.instances, ii)
	return ii
}

// WriteAllSamples writes one directory per instance under the configured path.
//
func (self *metricsInstrument) WriteAllSamples() error {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.config.Path == "" {
		return errors.New("no metrics path configured")
	}
	if err := os.MkdirAll(self.config.Path, os.ModePerm); err != nil {
		return err
	}
	for _, ii := range self.instances {
		prefix := strings.ReplaceAll(fmt.Sprintf("%s_", ii.id), ":", "-")
		outPath, err := ioutil.TempDir(self.config.Path, prefix)
		if err != nil {
			return err
		}
		logrus.Infof("writing metrics to: %s", outPath)
		if err := ii.writeSamples(outPath); err != nil {
			return errors.Wrapf(err, "error writing metrics for [%s]", ii.id)
		}
	}
	return nil
}

func (self *metricsInstrument) clean() {
	self.lock.Lock()
	defer self.lock.Unlock()

	var open []*metricsInstrumentInstance
	for _, ii := range self.instances {
		if ii.isClosed() {
			logrus.Infof("removed metricsInstrumentInstance [%s]", ii.id)
		} else {
			open = append(open, ii)
		}
	}
	self.instances = open
}

type metricsInstrumentInstance struct {
	id     string
	i      *metricsInstrument
	close  chan struct{}
	closed int32
	lock   sync.Mutex
	series *treemap.Map

	allocationsAccum int64
	acquiresAccum    int64
	recyclesAccum    int64
	exhaustedAccum   int64
	vectorsAccum     int64
	poolsAccum       int64
	liveVal          int64
}

/*
 * allocator
 */
func (self *metricsInstrumentInstance) Allocate(_ Kind, _ int) {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.allocationsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Acquire(_ Kind, _ int) {
	atomic.AddInt64(&self.liveVal, 1)
	if self.i.isEnabled() {
		atomic.AddInt64(&self.acquiresAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Recycle(_ Kind, _ int) {
	atomic.AddInt64(&self.liveVal, -1)
	if self.i.isEnabled() {
		atomic.AddInt64(&self.recyclesAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Exhausted(kind Kind, live int) {
	if self.i.isEnabled() {
		logrus.Errorf("[%s] exhausted allocating [%s], live [%d]", self.id, kind, live)
		atomic.AddInt64(&self.exhaustedAccum, 1)
	}
}

/*
 * wrappers
 */
func (self *metricsInstrumentInstance) VectorCreated(Kind) {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.vectorsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) PoolCreated(Kind, int) {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.poolsAccum, 1)
	}
}

/*
 * instrument lifecycle
 */
func (self *metricsInstrumentInstance) Shutdown() {
	if atomic.CompareAndSwapInt32(&self.closed, 0, 1) {
		close(self.close)
	}
}

func (self *metricsInstrumentInstance) isClosed() bool {
	return atomic.LoadInt32(&self.closed) == 1
}

func (self *metricsInstrumentInstance) snapshotter(ms int) {
	logrus.Debugf("[%s] started", self.id)
	defer logrus.Debugf("[%s] exited", self.id)

	ticker := time.NewTicker(time.Duration(ms) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if self.i.isEnabled() {
				self.snapshot()
			}
		case <-self.close:
			self.snapshot()
			return
		}
	}
}

func (self *metricsInstrumentInstance) snapshot() {
	self.lock.Lock()
	defer self.lock.Unlock()

	now := time.Now()
	self.append("allocations", now, atomic.SwapInt64(&self.allocationsAccum, 0))
	self.append("acquires", now, atomic.SwapInt64(&self.acquiresAccum, 0))
	self.append("recycles", now, atomic.SwapInt64(&self.recyclesAccum, 0))
	self.append("exhausted", now, atomic.SwapInt64(&self.exhaustedAccum, 0))
	self.append("vectors", now, atomic.SwapInt64(&self.vectorsAccum, 0))
	self.append("pools", now, atomic.SwapInt64(&self.poolsAccum, 0))
	self.append("live", now, atomic.LoadInt64(&self.liveVal))
}

func (self *metricsInstrumentInstance) append(name string, ts time.Time, v int64) {
	var samples []*util.Sample
	if found, ok := self.series.Get(name); ok {
		samples = found.([]*util.Sample)
	}
	self.series.Put(name, append(samples, &util.Sample{Ts: ts, V: v}))
}

func (self *metricsInstrumentInstance) samples(name string) []*util.Sample {
	self.lock.Lock()
	defer self.lock.Unlock()
	if found, ok := self.series.Get(name); ok {
		return found.([]*util.Sample)
	}
	return nil
}

func (self *metricsInstrumentInstance) writeSamples(outPath string) error {
	self.lock.Lock()
	defer self.lock.Unlock()

	if err := util.WriteMetricsId(fmt.Sprintf("sharedvector.%d", metricsVersion), outPath, map[string]string{"allocator": self.id}); err != nil {
		return err
	}
	it := self.series.Iterator()
	for it.Next() {
		if err := util.WriteSamples(it.Key().(string), outPath, it.Value().([]*util.Sample)); err != nil {
			return err
		}
	}
	return nil
}

// MetricsDatasets lists the series written by the metrics instrument.
var MetricsDatasets = []string{
	"acquires",
	"allocations",
	"exhausted",
	"live",
	"pools",
	"recycles",
	"vectors",
}
