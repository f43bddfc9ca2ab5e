package outwriter

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// missingCell is shown in tables for metric cells that cannot be read as numbers.
const missingCell = "-"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// renderTable writes a right-aligned table with the given headers and rows.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// labelFor returns the fit label, colored only when the config asks for it.
func labelFor(score, scale float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score, scale)
	}
	return schema.GetPlainLabel(score, scale)
}

// formatCell renders a raw metric cell, or the fallback when it is not numeric.
func formatCell(raw any, fmtFloat func(float64) string, fallback string) string {
	f, ok := algo.ToFloat(raw)
	if !ok {
		return fallback
	}
	return fmtFloat(f)
}

// presentMetrics returns the registry definitions for metrics carried by at least one row.
func presentMetrics(rows []schema.Entity) []schema.MetricDefinition {
	var defs []schema.MetricDefinition
	for _, d := range schema.DefaultRegistry.Definitions() {
		for _, e := range rows {
			if _, ok := e.Value(d.Key); ok {
				defs = append(defs, d)
				break
			}
		}
	}
	return defs
}

// scoredEntities strips scores so presentMetrics can inspect scored rows.
func scoredEntities(rows []schema.ScoredEntity) []schema.Entity {
	out := make([]schema.Entity, len(rows))
	for i, r := range rows {
		out[i] = r.Entity
	}
	return out
}

// metricBreakdown is one normalized per-metric score used for explanations.
type metricBreakdown struct {
	Name  string
	Value float64
}

const (
	metricMatchMinimum = 0.5
	topNMetrics        = 3
)

// formatTopMetricBreakdown names up to three metrics where the row matched best.
func formatTopMetricBreakdown(r schema.ScoredEntity) string {
	var metrics []metricBreakdown
	for k, v := range r.Breakdown {
		if v < metricMatchMinimum {
			continue
		}
		name := string(k)
		if def, ok := schema.DefaultRegistry.Resolve(k); ok {
			name = def.ShortLabel
		}
		metrics = append(metrics, metricBreakdown{Name: name, Value: v})
	}

	if len(metrics) == 0 {
		return "No strong matches"
	}

	slices.SortFunc(metrics, func(a, b metricBreakdown) int {
		return cmp.Or(cmp.Compare(b.Value, a.Value), cmp.Compare(a.Name, b.Name))
	})

	limit := min(len(metrics), topNMetrics)
	parts := make([]string, 0, limit)
	for _, m := range metrics[:limit] {
		parts = append(parts, m.Name)
	}
	return strings.Join(parts, " > ")
}

// describeScope names the geography a ranking covers.
func describeScope(county string) string {
	if county == "" {
		return "statewide"
	}
	return "in " + county
}

// describeSource names where the table came from for footers.
func describeSource(cfg *contract.Config) string {
	if cfg.DataFile != "" {
		return filepath.Base(cfg.DataFile)
	}
	return fmt.Sprintf("%s store", cfg.DataBackend)
}
