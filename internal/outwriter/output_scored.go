package outwriter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
)

// PrintScoredResults outputs ranked schools or districts, dispatching based on the output format configured.
func PrintScoredResults(st schema.ScoredTable, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONScored(w, st)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVScored(w, st, cfg, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParquetScored(w, st)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoredTable(w, st, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScoredTable generates and writes the human-readable ranking table.
func writeScoredTable(w io.Writer, st schema.ScoredTable, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	isDistrict := st.Level == schema.DistrictLevel
	var metrics []schema.MetricDefinition
	if cfg.Detail {
		metrics = presentMetrics(scoredEntities(st.Rows))
	}

	// 1. Define Headers
	var headers []string
	var nameWidth int
	if isDistrict {
		headers = []string{"Rank", "District", "County", "Schools", "Score", "Label"}
		nameWidth = GetMaxTableNameWidth(cfg, 1)
	} else {
		headers = []string{"Rank", "School", "District", "County", "Score", "Label"}
		nameWidth = GetMaxTableNameWidth(cfg, 2)
	}
	for _, d := range metrics {
		headers = append(headers, d.ShortLabel)
	}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}

	// 2. Populate Rows
	data := make([][]string, 0, len(st.Rows))
	for _, r := range st.Rows {
		var row []string
		if isDistrict {
			row = []string{
				strconv.Itoa(r.Rank),
				contract.TruncateText(r.District, nameWidth),
				r.County,
				fmt.Sprintf(intFmt, r.Members),
			}
		} else {
			row = []string{
				strconv.Itoa(r.Rank),
				contract.TruncateText(r.School, nameWidth),
				contract.TruncateText(r.District, nameWidth),
				r.County,
			}
		}
		row = append(row, fmtFloat(r.Score), labelFor(r.Score, st.Scale, cfg))
		for _, d := range metrics {
			raw, _ := r.Value(d.Key)
			row = append(row, formatCell(raw, fmtFloat, missingCell))
		}
		if cfg.Explain {
			row = append(row, formatTopMetricBreakdown(r))
		}
		data = append(data, row)
	}

	// 3. Render the table
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	noun := "schools"
	if isDistrict {
		noun = "districts"
	}
	if _, err := fmt.Fprintf(w, "Showing top %d of %d %s %s (scale 0-%g)\n", len(st.Rows), st.TotalCount, noun, describeScope(cfg.County), st.Scale); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scored in %v. Data source: %s\n", duration, describeSource(cfg)); err != nil {
		return err
	}
	return nil
}
