package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lambdatune/lambdatune/cmd/cli/format"
	"github.com/lambdatune/lambdatune/internal/benchmark"
	"github.com/lambdatune/lambdatune/internal/lambdaapi"
	"github.com/lambdatune/lambdatune/internal/pricing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sweep a function's memory sizes and rank them by cost and speed",
	Long: `Benchmark a Lambda function across a set of memory sizes.

The function's current configuration is saved first and restored when the
sweep finishes, whatever the outcome.

Examples:
  lambdatune run --function fibonacci --payload '{"n":30}'
  lambdatune run --function my-func --memory 128,512,1024,3008 --test-count 20`,
	RunE: runBenchmark,
}

var (
	runFunction         string
	runPayload          string
	runMemory           []int
	runTestCount        int
	runMaxThreads       int
	runTimeoutMS        int
	runIncludeColdstart bool
	runPriceTable       string
	runProgress         bool
)

func init() {
	runCmd.Flags().StringVar(&runFunction, "function", "", "Function to benchmark (required)")
	runCmd.Flags().StringVar(&runPayload, "payload", "{}", "JSON event payload passed on every invocation")
	runCmd.Flags().IntSliceVar(&runMemory, "memory", []int{128, 256, 512, 768, 1024, 1536, 2048, 2560, 3008}, "Memory sizes to sweep, in MB")
	runCmd.Flags().IntVar(&runTestCount, "test-count", benchmark.DefaultTestCount, "Warm samples to collect per memory size")
	runCmd.Flags().IntVar(&runMaxThreads, "max-threads", benchmark.DefaultMaxThreads, "Concurrent invocations per sampling round")
	runCmd.Flags().IntVar(&runTimeoutMS, "timeout", benchmark.DefaultTimeoutMS, "Function timeout during the sweep, in ms")
	runCmd.Flags().BoolVar(&runIncludeColdstart, "include-coldstart", false, "Count cold-start samples in the measurements")
	runCmd.Flags().StringVar(&runPriceTable, "price-table", "", "Path to a refreshed price table JSON (default: built-in rates)")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "Show a progress bar across memory sizes")
	_ = runCmd.MarkFlagRequired("function")
	RootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg := benchmark.DefaultConfig()
	cfg.Verbose = verbose
	cfg.IgnoreColdstart = !runIncludeColdstart
	cfg.TestCount = runTestCount
	cfg.MaxThreads = runMaxThreads
	cfg.TargetFunction = runFunction
	cfg.InvocationPayload = json.RawMessage(runPayload)
	cfg.MemorySets = runMemory
	cfg.TimeoutMS = runTimeoutMS
	if err := cfg.Validate(); err != nil {
		return err
	}

	table := pricing.Default()
	if runPriceTable != "" {
		f, err := os.Open(runPriceTable)
		if err != nil {
			return fmt.Errorf("open price table: %w", err)
		}
		defer f.Close()
		if table, err = pricing.Load(f); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	api, err := lambdaapi.New(ctx, region)
	if err != nil {
		return err
	}

	sess := benchmark.NewSessionWithTable(api, cfg, table)
	if runProgress && getFormat() == format.FormatTable {
		bar := progressbar.NewOptions(len(cfg.MemorySets),
			progressbar.OptionSetDescription("sweeping"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
		sess.Progress = func(int) {
			_ = bar.Add(1)
		}
	}

	report, publicErrors, err := sess.Run(ctx)
	if err != nil {
		return err
	}
	return format.Report(os.Stdout, getFormat(), report, publicErrors)
}
