// Package schema has models, constants and the metric registry for schoolfit.
package schema

import (
	"slices"
	"strings"
)

// Entity is one row of the joined school table.
// Values holds raw cells exactly as loaded, which may be strings, numbers or nil.
type Entity struct {
	CDSCode  string            `json:"cds_code,omitempty"`
	County   string            `json:"county"`
	District string            `json:"district"`
	School   string            `json:"school,omitempty"`
	Values   map[MetricKey]any `json:"values"`
}

// Key returns the composite (District, School) identity of the entity.
// School names repeat across districts, so the district is always part of the key.
func (e Entity) Key() string {
	if e.School == "" {
		return e.District
	}
	return e.District + "/" + e.School
}

// Value returns the raw cell for a metric.
func (e Entity) Value(key MetricKey) (any, bool) {
	v, ok := e.Values[key]
	return v, ok
}

// SetIdentity assigns an identity column by its canonical name.
// Unknown column names are ignored.
func (e *Entity) SetIdentity(column, value string) {
	value = strings.TrimSpace(value)
	switch column {
	case CDSCodeColumn:
		e.CDSCode = value
	case CountyColumn:
		e.County = value
	case DistrictColumn:
		e.District = value
	case SchoolColumn:
		e.School = value
	}
}

// ResolveColumn classifies a source column header, ignoring case and padding.
// Identity columns return their canonical name; registered metrics return their key.
// Anything else returns two empty values and is dropped by loaders.
func ResolveColumn(header string) (string, MetricKey) {
	header = strings.TrimSpace(header)
	for _, col := range IdentityColumns {
		if strings.EqualFold(col, header) {
			return col, ""
		}
	}
	if key, ok := DefaultRegistry.ParseMetricKey(header); ok {
		return "", key
	}
	return "", ""
}

// Table is the raw entity table handed to the scoring engine.
// Columns lists the metric columns present in the source. A metric missing
// from Columns is treated as absent even when some rows carry a value.
type Table struct {
	Columns []MetricKey `json:"columns"`
	Rows    []Entity    `json:"rows"`
}

// HasColumn reports whether the metric column exists in the table.
func (t Table) HasColumn(key MetricKey) bool {
	return slices.Contains(t.Columns, key)
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ScoredEntity is an entity with its aggregate score and rank.
type ScoredEntity struct {
	Entity
	Score     float64               `json:"score"`
	Rank      int                   `json:"rank"`
	Members   int                   `json:"members,omitempty"`   // schools rolled into a district
	Breakdown map[MetricKey]float64 `json:"breakdown,omitempty"` // normalized per-metric scores
}

// ScoredTable is the ranked output of the scoring engine.
type ScoredTable struct {
	Level      EntityLevel    `json:"level"`
	Rows       []ScoredEntity `json:"rows"`
	TotalCount int            `json:"total_count"`
	Scale      float64        `json:"scale"`
}

// Limit returns a copy of the table holding at most n rows.
// TotalCount is kept so callers can still render "#N of total".
func (st ScoredTable) Limit(n int) ScoredTable {
	if n <= 0 || len(st.Rows) <= n {
		return st
	}
	out := st
	out.Rows = st.Rows[:n]
	return out
}

// Selection names one entity the user wants to compare.
// District-level selections leave School empty.
type Selection struct {
	District string `json:"district"`
	School   string `json:"school,omitempty"`
}

// String renders the selection the same way Entity.Key does.
func (s Selection) String() string {
	if s.School == "" {
		return s.District
	}
	return s.District + "/" + s.School
}

// ComparisonEntry is the outcome of looking up one selection in a scored table.
type ComparisonEntry struct {
	Selection
	County  string  `json:"county,omitempty"`
	CDSCode string  `json:"cds_code,omitempty"`
	Found   bool    `json:"found"`
	Score   float64 `json:"score,omitempty"`
	Rank    int     `json:"rank,omitempty"`
}

// ComparisonResult holds all selection lookups against one scored table.
type ComparisonResult struct {
	Level      EntityLevel       `json:"level"`
	County     string            `json:"county,omitempty"`
	TotalCount int               `json:"total_count"`
	Scale      float64           `json:"scale"`
	Entries    []ComparisonEntry `json:"entries"`
}
