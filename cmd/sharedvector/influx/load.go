package influx

import (
	"fmt"
	"path/filepath"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	sv "github.com/openziti/sharedvector"
	"github.com/openziti/sharedvector/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	influxCmd.AddCommand(influxLoadCmd)
}

var influxLoadCmd = &cobra.Command{
	Use:   "load <metricsRoot>",
	Short: "Load metrics samples into InfluxDB",
	Args:  cobra.ExactArgs(1),
	Run:   influxLoad,
}

func influxLoad(_ *cobra.Command, args []string) {
	authToken := ""
	if influxDbUsername != "" || influxDbPassword != "" {
		authToken = fmt.Sprintf("%s:%s", influxDbUsername, influxDbPassword)
	}
	client := influxdb2.NewClient(influxDbUrl, authToken)
	defer client.Close()
	writeApi := client.WriteAPI("", influxDbDatabase)

	if err := load(args[0], writeApi.WritePoint); err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	writeApi.Flush()
	logrus.Infof("complete")
}

// load reads every metrics directory under root and emits one point per sample, tagged with the allocator id.
//
func load(root string, emit func(*write.Point)) error {
	found, err := util.DiscoverMetrics(root)
	if err != nil {
		return errors.Wrapf(err, "error discovering metrics in [%s]", root)
	}
	for dir, id := range found {
		allocator := id.Values["allocator"]
		if allocator == "" {
			allocator = filepath.Base(dir)
		}
		for _, dataset := range sv.MetricsDatasets {
			datasetPath := filepath.Join(dir, dataset+".csv")
			samples, err := util.ReadSamples(datasetPath)
			if err != nil {
				return errors.Wrapf(err, "error reading dataset [%s]", datasetPath)
			}
			for _, sample := range samples {
				p := influxdb2.NewPoint(dataset, nil, map[string]interface{}{"v": sample.V}, sample.Ts).
					AddTag("type", id.Id).
					AddTag("allocator", allocator)
				emit(p)
			}
			logrus.Infof("wrote [%d] points for allocator [%s] dataset [%s]", len(samples), allocator, dataset)
		}
	}
	return nil
}
