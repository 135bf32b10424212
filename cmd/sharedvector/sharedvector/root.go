package sharedvector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "Enable profiling (cpu, memory, mutex)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	RootCmd.PersistentFlags().BoolVarP(&configDump, "dump", "d", false, "Dump the processed config")
}

var RootCmd = &cobra.Command{
	Use:   strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0])),
	Short: "Shared vector handle tooling",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		switch profileMode {
		case "":
		case "cpu":
			activeProfile = profile.Start(profile.CPUProfile)
		case "memory":
			activeProfile = profile.Start(profile.MemProfile)
		case "mutex":
			activeProfile = profile.Start(profile.MutexProfile)
		default:
			logrus.Fatalf("unknown profile mode '%s'", profileMode)
		}
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if activeProfile != nil {
			activeProfile.Stop()
		}
	},
}
var verbose bool
var profileMode string
var activeProfile interface{ Stop() }
var configPath string
var configDump bool
