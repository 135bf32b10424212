package metrics

import (
	"github.com/openziti/sharedvector/cmd/sharedvector/sharedvector"
	"github.com/spf13/cobra"
)

func init() {
	sharedvector.RootCmd.AddCommand(metricsCmd)
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Control metrics instruments",
}
