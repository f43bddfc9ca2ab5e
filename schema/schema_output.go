package schema

// Score band names, from best to worst fit.
const (
	ExcellentFit = "Excellent"
	StrongFit    = "Strong"
	FairFit      = "Fair"
	WeakFit      = "Weak"
)

// EnrichedEntity adds presentation data to a ScoredEntity.
type EnrichedEntity struct {
	Label string `json:"label"`
	ScoredEntity
}

// EnrichedTable is the JSON shape returned to MCP clients and JSON writers.
type EnrichedTable struct {
	Level      EntityLevel      `json:"level"`
	TotalCount int              `json:"total_count"`
	Scale      float64          `json:"scale"`
	Rows       []EnrichedEntity `json:"rows"`
}

// GetPlainLabel returns the fit band for a score on the given scale.
// Bands are fractions of the scale so 0-10 and 0-100 outputs agree.
func GetPlainLabel(score, scale float64) string {
	if scale <= 0 {
		return WeakFit
	}
	frac := score / scale
	switch {
	case frac >= 0.8:
		return ExcellentFit
	case frac >= 0.6:
		return StrongFit
	case frac >= 0.4:
		return FairFit
	default:
		return WeakFit
	}
}

// EnrichTable adds labels to every row of a scored table.
func EnrichTable(st ScoredTable) EnrichedTable {
	rows := make([]EnrichedEntity, len(st.Rows))
	for i, r := range st.Rows {
		rows[i] = EnrichedEntity{
			Label:        GetPlainLabel(r.Score, st.Scale),
			ScoredEntity: r,
		}
	}
	return EnrichedTable{
		Level:      st.Level,
		TotalCount: st.TotalCount,
		Scale:      st.Scale,
		Rows:       rows,
	}
}
