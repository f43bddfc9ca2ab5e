package schema

import "time"

// StoreStatus represents the status of the entity table store.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalRows      int       `json:"total_rows"`
	TotalCounties  int       `json:"total_counties"`
	TotalDistricts int       `json:"total_districts"`
	LastBatchID    string    `json:"last_batch_id,omitempty"`
	LastImportTime time.Time `json:"last_import_time"`
	SourceFile     string    `json:"source_file,omitempty"`
}

// ImportSummary describes one completed import into the table store.
type ImportSummary struct {
	BatchID    string    `json:"batch_id"`
	SourceFile string    `json:"source_file"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"` // rows without a district or school name
	ImportedAt time.Time `json:"imported_at"`
}
