package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// PrintComparisonResults outputs selection lookups, dispatching based on the output format configured.
func PrintComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVComparison(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for compare")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// formatStanding renders "#3 of 120 in San Diego" for a found entry.
func formatStanding(e schema.ComparisonEntry, result schema.ComparisonResult) string {
	if !e.Found {
		return "not found"
	}
	return fmt.Sprintf("#%d of %d %s", e.Rank, result.TotalCount, describeScope(result.County))
}

// writeComparisonTable writes the selections side by side.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	headers := []string{"Selection", "County", "Score", "Label", "Standing"}
	nameWidth := GetMaxTableNameWidth(cfg, 1)

	var data [][]string
	found := 0
	for _, e := range result.Entries {
		score, label, county := missingCell, missingCell, missingCell
		if e.Found {
			found++
			score = fmtFloat(e.Score)
			label = labelFor(e.Score, result.Scale, cfg)
			county = e.County
		}
		data = append(data, []string{
			contract.TruncateText(e.Selection.String(), nameWidth),
			county,
			score,
			label,
			formatStanding(e, result),
		})
	}

	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Compared %d %ss (%d found) out of %d ranked %s\n", len(result.Entries), result.Level, found, result.TotalCount, describeScope(result.County)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scored in %v. Data source: %s\n", duration, describeSource(cfg)); err != nil {
		return err
	}
	return nil
}

// writeCSVComparison writes selection lookups in CSV format.
func writeCSVComparison(w io.Writer, result schema.ComparisonResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"selection", "district", "school", "county", "cds_code", "found", "score", "label", "rank", "total"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range result.Entries {
			score, label, rank := "", "", ""
			if e.Found {
				score = fmtFloat(e.Score)
				label = schema.GetPlainLabel(e.Score, result.Scale)
				rank = fmt.Sprintf(intFmt, e.Rank)
			}
			rec := []string{
				e.Selection.String(),
				e.District,
				e.School,
				e.County,
				e.CDSCode,
				strconv.FormatBool(e.Found),
				score,
				label,
				rank,
				fmt.Sprintf(intFmt, result.TotalCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
