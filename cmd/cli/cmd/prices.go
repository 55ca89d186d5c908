package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lambdatune/lambdatune/cmd/cli/format"
	"github.com/lambdatune/lambdatune/internal/pricing"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Print the per-memory duration price table used for cost rankings",
	RunE:  showPrices,
}

var pricesTablePath string

func init() {
	pricesCmd.Flags().StringVar(&pricesTablePath, "price-table", "", "Path to a refreshed price table JSON (default: built-in rates)")
	RootCmd.AddCommand(pricesCmd)
}

func showPrices(cmd *cobra.Command, args []string) error {
	table := pricing.Default()
	if pricesTablePath != "" {
		f, err := os.Open(pricesTablePath)
		if err != nil {
			return fmt.Errorf("open price table: %w", err)
		}
		defer f.Close()
		if table, err = pricing.Load(f); err != nil {
			return err
		}
	}

	if getFormat() == format.FormatJSON {
		rates := make(map[string]float64, len(table))
		for _, m := range table.Memories() {
			rates[fmt.Sprintf("%d", m)] = table[m]
		}
		return format.JSON(os.Stdout, map[string]any{"rates": rates})
	}

	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader([]string{"Memory (MB)", "USD per 100ms"})
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, m := range table.Memories() {
		t.Append([]string{fmt.Sprintf("%d", m), fmt.Sprintf("%.9f", table[m])})
	}
	t.Render()
	return nil
}
