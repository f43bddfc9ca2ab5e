package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/parquet"
	"github.com/huangsam/schoolfit/schema"
)

// writeJSONScored writes a ranked table with fit labels attached.
func writeJSONScored(w io.Writer, st schema.ScoredTable) error {
	return writeJSON(w, schema.EnrichTable(st))
}

// writeParquetScored writes a ranked table as Parquet rows stamped with the current time.
func writeParquetScored(w io.Writer, st schema.ScoredTable) error {
	return parquet.WriteScoredRows(w, parquet.NewScoredRows(st, time.Now().UTC()))
}

// writeCSVScored writes a ranked table in CSV format.
// Metric columns hold the raw cell values; with --explain the normalized
// per-metric scores follow as norm_* columns.
func writeCSVScored(w io.Writer, st schema.ScoredTable, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	isDistrict := st.Level == schema.DistrictLevel
	metrics := presentMetrics(scoredEntities(st.Rows))

	header := []string{"rank", "cds_code", "county", "district"}
	if isDistrict {
		header = append(header, "members")
	} else {
		header = append(header, "school")
	}
	header = append(header, "score", "label")
	for _, d := range metrics {
		header = append(header, strings.ToLower(string(d.Key)))
	}
	if cfg.Explain {
		for _, d := range metrics {
			header = append(header, "norm_"+strings.ToLower(string(d.Key)))
		}
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range st.Rows {
			rec := []string{strconv.Itoa(r.Rank), r.CDSCode, r.County, r.District}
			if isDistrict {
				rec = append(rec, fmt.Sprintf(intFmt, r.Members))
			} else {
				rec = append(rec, r.School)
			}
			rec = append(rec, fmtFloat(r.Score), schema.GetPlainLabel(r.Score, st.Scale))
			for _, d := range metrics {
				raw, _ := r.Value(d.Key)
				rec = append(rec, formatCell(raw, fmtFloat, ""))
			}
			if cfg.Explain {
				for _, d := range metrics {
					norm, ok := r.Breakdown[d.Key]
					if !ok {
						rec = append(rec, "")
						continue
					}
					rec = append(rec, strconv.FormatFloat(norm, 'f', 3, 64))
				}
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
