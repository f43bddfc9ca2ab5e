package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// PrintMetricsDefinitions displays every metric with the weight and target in force.
// This is a static display that does not require scoring.
func PrintMetricsDefinitions(model schema.MetricsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for metrics")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model, cfg)
		}, "Wrote text")
	}
}

// formatPreference describes what a metric rewards under the current settings.
func formatPreference(m schema.MetricSetting) string {
	if m.Mode != schema.TargetMode {
		if m.Direction == schema.LowerIsBetter {
			return "lower is better"
		}
		return "higher is better"
	}
	if m.Target == nil {
		return "target unset"
	}
	if m.TargetLabel != "" {
		return fmt.Sprintf("%s (%g%%)", m.TargetLabel, *m.Target)
	}
	return fmt.Sprintf("near %g%%", *m.Target)
}

// writeMetricsText displays metrics in human-readable text format.
func writeMetricsText(w io.Writer, model schema.MetricsRenderModel, cfg *contract.Config) error {
	title := "🏫 " + model.Title
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))+1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Formula: %s\n", model.Formula); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Normalization: %s, exponent %g, scale 0-%g\n", model.Method, model.Exponent, model.Scale); err != nil {
		return err
	}
	weightNote := ""
	if model.TotalWeight == 0 {
		weightNote = fmt.Sprintf(" (every result scores %g)", model.Scale/2)
	}
	if _, err := fmt.Fprintf(w, "Total weight: %d%s\n\n", model.TotalWeight, weightNote); err != nil {
		return err
	}

	headers := []string{"Key", "Metric", "Mode", "Preference", "Weight", "Present"}
	if cfg.Detail {
		headers = append(headers, "Tip")
	}
	for _, group := range model.Groups {
		if _, err := fmt.Fprintf(w, "%s\n", group.Name); err != nil {
			return err
		}
		var data [][]string
		for _, m := range group.Metrics {
			present := "yes"
			if !m.Present {
				present = "no"
			}
			row := []string{
				string(m.Key),
				m.Label,
				string(m.Mode),
				formatPreference(m),
				strconv.Itoa(m.Weight),
				present,
			}
			if cfg.Detail {
				row = append(row, m.Tip)
			}
			data = append(data, row)
		}
		if err := renderTable(w, headers, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVMetrics writes one row per metric in CSV format.
func writeCSVMetrics(w io.Writer, model schema.MetricsRenderModel) error {
	header := []string{"group", "key", "label", "mode", "direction", "weight", "target", "target_label", "present"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, group := range model.Groups {
			for _, m := range group.Metrics {
				target := ""
				if m.Target != nil {
					target = strconv.FormatFloat(*m.Target, 'f', -1, 64)
				}
				rec := []string{
					group.Name,
					string(m.Key),
					m.Label,
					string(m.Mode),
					string(m.Direction),
					strconv.Itoa(m.Weight),
					target,
					m.TargetLabel,
					strconv.FormatBool(m.Present),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
