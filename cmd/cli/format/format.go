package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"

	"github.com/lambdatune/lambdatune/internal/benchmark"
)

// OutputFormat determines how results are displayed.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// Report renders a benchmark report in the chosen format.
func Report(w io.Writer, f OutputFormat, r *benchmark.Report, publicErrors []string) error {
	switch f {
	case FormatJSON:
		return JSON(w, struct {
			*benchmark.Report
			Errors []string `json:"errors,omitempty"`
		}{r, publicErrors})
	case FormatCSV:
		return CSV(w, r)
	default:
		Table(w, r, publicErrors)
		return nil
	}
}

// JSON renders v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders the rankings, per-memory results, and any public errors as
// aligned tables.
func Table(w io.Writer, r *benchmark.Report, publicErrors []string) {
	fmt.Fprintln(w, "Cost ranking (cheapest first)")
	costTable := newTable(w, []string{"Rank", "Memory (MB)", "Cost (USD)"})
	for i, e := range r.Ranking.Cost {
		costTable.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", e.MemoryMB),
			fmt.Sprintf("%.6f", e.CostUSD),
		})
	}
	costTable.Render()

	fmt.Fprintln(w, "\nSpeed ranking (fastest first)")
	speedTable := newTable(w, []string{"Rank", "Memory (MB)", "Avg duration (ms)"})
	for i, e := range r.Ranking.Duration {
		speedTable.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", e.MemoryMB),
			fmt.Sprintf("%d", e.DurationMS),
		})
	}
	speedTable.Render()

	fmt.Fprintln(w, "\nPer-memory results")
	logTable := newTable(w, []string{"Memory (MB)", "Success", "Avg (ms)", "Samples", "Cost (USD)", "Errors"})
	for _, row := range logRows(r) {
		logTable.Append([]string{
			fmt.Sprintf("%d", row.MemoryMB),
			fmt.Sprintf("%t", row.Success),
			fmt.Sprintf("%d", row.AverageMS),
			fmt.Sprintf("%d", row.Samples),
			fmt.Sprintf("%.6f", row.CostUSD),
			row.Errors,
		})
	}
	logTable.Render()

	for _, note := range r.Notes {
		fmt.Fprintf(w, "note: %s\n", note)
	}
	for _, e := range publicErrors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// logRow flattens one per-memory log entry for CSV export.
type logRow struct {
	MemoryMB  int     `csv:"memory_mb"`
	Success   bool    `csv:"success"`
	AverageMS int     `csv:"average_duration_ms"`
	Samples   int     `csv:"samples"`
	CostUSD   float64 `csv:"execution_cost_usd"`
	Errors    string  `csv:"errors"`
}

// CSV writes the per-memory log entries as CSV rows.
func CSV(w io.Writer, r *benchmark.Report) error {
	rows := logRows(r)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}

func logRows(r *benchmark.Report) []logRow {
	rows := make([]logRow, 0, len(r.Logs))
	for _, l := range r.Logs {
		rows = append(rows, logRow{
			MemoryMB:  l.MemoryMB,
			Success:   l.Success,
			AverageMS: l.AverageMS,
			Samples:   len(l.DurationsMS),
			CostUSD:   l.CostUSD,
			Errors:    strings.Join(l.Errors, "; "),
		})
	}
	return rows
}
