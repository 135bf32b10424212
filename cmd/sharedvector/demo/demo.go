package demo

import (
	sv "github.com/openziti/sharedvector"
	"github.com/openziti/sharedvector/cmd/sharedvector/sharedvector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	demoCmd.Flags().StringVarP(&kindName, "kind", "k", "integer", "Payload kind (raw, integer, double)")
	demoCmd.Flags().IntVarP(&length, "length", "l", 16, "Payload length")
	demoCmd.Flags().IntVarP(&slots, "slots", "s", 4, "Slots in the batch pool")
	sharedvector.RootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Exercise vectors, views and pools against a configured allocator",
	Args:  cobra.NoArgs,
	Run:   demo,
}
var kindName string
var length int
var slots int

func demo(_ *cobra.Command, _ []string) {
	kind, err := sv.ParseKind(kindName)
	if err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	cfg, err := sharedvector.LoadConfig()
	if err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	a, i, err := sharedvector.NewAllocator("demo", cfg)
	if err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	if err := run(a, kind); err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	a.Shutdown()
	if w, ok := i.(interface{ WriteAllSamples() error }); ok {
		if err := w.WriteAllSamples(); err != nil {
			logrus.Errorf("error writing samples (%v)", err)
		}
	}
}

func run(a *sv.Allocator, kind sv.Kind) error {
	p, err := fill(a, kind, length)
	if err != nil {
		return err
	}
	v, err := a.Wrap(kind, p)
	if err != nil {
		return err
	}
	defer v.Release()
	logrus.Infof("%s, length [%d]\n%s", v.ClassName(), v.Len(), v.Handle().Dump())

	pool, err := a.PoolFromSingle(v)
	if err != nil {
		return err
	}
	defer pool.Release()
	if pool.Handles()[0].Tag() != v.Tag() {
		return errors.New("pool slot does not share the vector payload")
	}
	logrus.Infof("%s, slots [%d]\n%s", pool.TypeName(), pool.Len(), pool.Handles()[0].Dump())

	if v.Len() > 1 {
		view, err := v.View(1, v.Len())
		if err != nil {
			return err
		}
		defer view.Release()
		logrus.Infof("view, length [%d]\n%s", view.Len(), view.Handle().Dump())
	}

	batch, err := a.NewPool(kind, slots, length)
	if err != nil {
		return err
	}
	defer batch.Release()
	logrus.Infof("%s, slots [%d], live payloads [%d]", batch.TypeName(), batch.Len(), a.Live())
	return nil
}

func fill(a *sv.Allocator, kind sv.Kind, n int) (*sv.Payload, error) {
	switch kind {
	case sv.RAW:
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		return a.CopyRaw(data)
	case sv.INTEGER:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(i)
		}
		return a.CopyIntegers(data)
	default:
		data := make([]float64, n)
		for i := range data {
			data[i] = float64(i) / 2
		}
		return a.CopyDoubles(data)
	}
}
