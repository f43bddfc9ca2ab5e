package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/schoolfit/schema"
)

// PrintStoreStatus prints table store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Data Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Rows: %d\n", status.TotalRows)
	if status.TotalRows > 0 {
		_, _ = fmt.Fprintf(w, "Counties: %d\n", status.TotalCounties)
		_, _ = fmt.Fprintf(w, "Districts: %d\n", status.TotalDistricts)
	}
	if status.LastBatchID != "" {
		_, _ = fmt.Fprintf(w, "Last Batch: %s\n", status.LastBatchID)
		_, _ = fmt.Fprintf(w, "Last Import: %s\n", status.LastImportTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Source File: %s\n", status.SourceFile)
	}
}

// PrintImportSummary prints the outcome of a data import.
func PrintImportSummary(w io.Writer, summary schema.ImportSummary) {
	_, _ = fmt.Fprintf(w, "Imported %d rows from %s\n", summary.Rows, summary.SourceFile)
	if summary.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d rows without a district or school name\n", summary.Skipped)
	}
	_, _ = fmt.Fprintf(w, "Batch: %s\n", summary.BatchID)
}
