// Package algo is the scoring engine: normalization, weighted aggregation,
// ranking and district rollup over an in-memory school table.
//
// Every function here is pure. The table passed in is never mutated, so a
// single loaded table can be shared by concurrent callers that each bring
// their own Settings.
package algo

import "github.com/huangsam/schoolfit/schema"

// Score normalizes, aggregates and ranks every school in the table.
func Score(table schema.Table, settings Settings) schema.ScoredTable {
	rows, scale := scoreRows(table, settings)
	return schema.ScoredTable{
		Level:      schema.SchoolLevel,
		Rows:       RankEntities(rows),
		TotalCount: len(rows),
		Scale:      scale,
	}
}

// ScoreDistricts scores schools, then rolls them up into ranked districts.
func ScoreDistricts(table schema.Table, settings Settings) schema.ScoredTable {
	rows, scale := scoreRows(table, settings)
	schools := schema.ScoredTable{
		Level:      schema.SchoolLevel,
		Rows:       rows,
		TotalCount: len(rows),
		Scale:      scale,
	}
	return RollupDistricts(schools, table.Columns)
}

// ScoreLevel dispatches on the requested entity level.
func ScoreLevel(table schema.Table, settings Settings, level schema.EntityLevel) schema.ScoredTable {
	if level == schema.DistrictLevel {
		return ScoreDistricts(table, settings)
	}
	return Score(table, settings)
}

// scoreRows computes unranked scored rows in input order.
func scoreRows(table schema.Table, settings Settings) ([]schema.ScoredEntity, float64) {
	opts := settings.Options()
	if opts.Scale <= 0 {
		opts = DefaultOptions()
	}
	n := table.Len()
	rows := make([]schema.ScoredEntity, n)
	for i, e := range table.Rows {
		rows[i] = schema.ScoredEntity{Entity: e}
	}
	if n == 0 {
		return rows, opts.Scale
	}

	reg := settings.Registry()
	normalizer := NewNormalizer(opts)
	var columns []WeightedColumn

	for _, key := range settings.Keys() {
		s, _ := settings.Get(key)
		if s.Weight == 0 || !table.HasColumn(key) {
			continue
		}
		def, ok := reg.Resolve(key)
		if !ok {
			continue
		}

		var target float64
		if s.Target != nil {
			target = *s.Target
		}
		scores := normalizer.Normalize(column(table, key), def, target)
		columns = append(columns, WeightedColumn{Scores: scores, Weight: float64(s.Weight)})

		for i := range rows {
			if rows[i].Breakdown == nil {
				rows[i].Breakdown = make(map[schema.MetricKey]float64)
			}
			rows[i].Breakdown[key] = scores[i]
		}
	}

	aggregate := Aggregate(columns, n, opts.Scale)
	for i := range rows {
		rows[i].Score = aggregate[i]
	}
	return rows, opts.Scale
}

// column extracts the raw cells of one metric in row order.
func column(table schema.Table, key schema.MetricKey) []any {
	out := make([]any, table.Len())
	for i, e := range table.Rows {
		out[i] = e.Values[key]
	}
	return out
}
