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

// printCatalog dispatches a catalog listing on the output format.
// Parquet is reserved for ranked results.
func printCatalog(cfg *contract.Config, what string, data any, writeCSV, writeText func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, data)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, writeCSV, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for %s", what)
	default:
		return writeWithFile(cfg.OutputFile, writeText, "Wrote table")
	}
}

// PrintCounties lists counties with their district and school counts.
func PrintCounties(counties []schema.CountySummary, cfg *contract.Config) error {
	if counties == nil {
		counties = []schema.CountySummary{}
	}
	return printCatalog(cfg, "counties", counties,
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"county", "districts", "schools"}, func(cw *csv.Writer) error {
				for _, c := range counties {
					if err := cw.Write([]string{c.County, strconv.Itoa(c.Districts), strconv.Itoa(c.Schools)}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(w io.Writer) error {
			data := make([][]string, 0, len(counties))
			for _, c := range counties {
				data = append(data, []string{c.County, strconv.Itoa(c.Districts), strconv.Itoa(c.Schools)})
			}
			if err := renderTable(w, []string{"County", "Districts", "Schools"}, data); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d counties\n", len(counties))
			return err
		})
}

// PrintDistrictList lists districts with their school counts.
func PrintDistrictList(districts []schema.DistrictSummary, cfg *contract.Config) error {
	if districts == nil {
		districts = []schema.DistrictSummary{}
	}
	return printCatalog(cfg, "districts", districts,
		func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"county", "district", "schools"}, func(cw *csv.Writer) error {
				for _, d := range districts {
					if err := cw.Write([]string{d.County, d.District, strconv.Itoa(d.Schools)}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(w io.Writer) error {
			nameWidth := GetMaxTableNameWidth(cfg, 1)
			data := make([][]string, 0, len(districts))
			for _, d := range districts {
				data = append(data, []string{contract.TruncateText(d.District, nameWidth), d.County, strconv.Itoa(d.Schools)})
			}
			if err := renderTable(w, []string{"District", "County", "Schools"}, data); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d districts %s\n", len(districts), describeScope(cfg.County))
			return err
		})
}

// PrintSchoolList lists schools with their identity columns, plus raw metrics with --detail.
func PrintSchoolList(schools []schema.Entity, cfg *contract.Config) error {
	if schools == nil {
		schools = []schema.Entity{}
	}
	fmtFloat, _ := createFormatters(cfg.Precision)
	metrics := presentMetrics(schools)

	return printCatalog(cfg, "schools", schools,
		func(w io.Writer) error {
			header := []string{"cds_code", "county", "district", "school"}
			for _, d := range metrics {
				header = append(header, strings.ToLower(string(d.Key)))
			}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, e := range schools {
					rec := []string{e.CDSCode, e.County, e.District, e.School}
					for _, d := range metrics {
						raw, _ := e.Value(d.Key)
						rec = append(rec, formatCell(raw, fmtFloat, ""))
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		},
		func(w io.Writer) error {
			nameWidth := GetMaxTableNameWidth(cfg, 2)
			headers := []string{"School", "District", "County", "CDS Code"}
			if cfg.Detail {
				for _, d := range metrics {
					headers = append(headers, d.ShortLabel)
				}
			}
			data := make([][]string, 0, len(schools))
			for _, e := range schools {
				row := []string{
					contract.TruncateText(e.School, nameWidth),
					contract.TruncateText(e.District, nameWidth),
					e.County,
					e.CDSCode,
				}
				if cfg.Detail {
					for _, d := range metrics {
						raw, _ := e.Value(d.Key)
						row = append(row, formatCell(raw, fmtFloat, missingCell))
					}
				}
				data = append(data, row)
			}
			if err := renderTable(w, headers, data); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d schools\n", len(schools))
			return err
		})
}
