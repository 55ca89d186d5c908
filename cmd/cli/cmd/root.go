package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lambdatune/lambdatune/cmd/cli/format"
)

var (
	region       string
	outputFormat string
	verbose      bool
)

// RootCmd is the top-level CLI command.
var RootCmd = &cobra.Command{
	Use:   "lambdatune",
	Short: "Find the cheapest and fastest memory size for a Lambda function",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&region, "region", envOrDefault("LAMBDATUNE_REGION", ""), "AWS region (defaults to the environment/profile chain)")
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, csv")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose log output")
}

func getFormat() format.OutputFormat {
	switch outputFormat {
	case "json":
		return format.FormatJSON
	case "csv":
		return format.FormatCSV
	default:
		return format.FormatTable
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
