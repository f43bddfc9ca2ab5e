package algo

import "github.com/huangsam/schoolfit/schema"

// districtKey groups schools by county and district, since district names
// are only unique within a county.
type districtKey struct {
	county   string
	district string
}

// districtAccumulator collects member rows for one district.
type districtAccumulator struct {
	key       districtKey
	cdsCode   string
	scores    []float64
	values    map[schema.MetricKey][]float64
	breakdown map[schema.MetricKey][]float64
}

// RollupDistricts averages already-scored schools into districts and re-ranks them.
// Scores and metric columns are simple means rounded to one decimal; nothing is
// re-normalized, so districts keep the school-level basis. A metric column with
// no valid member values is left out of that district's values.
func RollupDistricts(scored schema.ScoredTable, columns []schema.MetricKey) schema.ScoredTable {
	groups := make(map[districtKey]*districtAccumulator)
	var order []districtKey

	for _, r := range scored.Rows {
		key := districtKey{county: r.County, district: r.District}
		acc, ok := groups[key]
		if !ok {
			acc = &districtAccumulator{
				key:       key,
				cdsCode:   districtCode(r.CDSCode),
				values:    make(map[schema.MetricKey][]float64),
				breakdown: make(map[schema.MetricKey][]float64),
			}
			groups[key] = acc
			order = append(order, key)
		}
		acc.scores = append(acc.scores, r.Score)
		for _, col := range columns {
			if raw, ok := r.Value(col); ok {
				if f, ok := ToFloat(raw); ok {
					acc.values[col] = append(acc.values[col], f)
				}
			}
		}
		for k, v := range r.Breakdown {
			acc.breakdown[k] = append(acc.breakdown[k], v)
		}
	}

	rows := make([]schema.ScoredEntity, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		row := schema.ScoredEntity{
			Entity: schema.Entity{
				CDSCode:  acc.cdsCode,
				County:   key.county,
				District: key.district,
				Values:   make(map[schema.MetricKey]any),
			},
			Score:   Round(Mean(acc.scores), ScoreDecimals),
			Members: len(acc.scores),
		}
		for _, col := range columns {
			if vs := acc.values[col]; len(vs) > 0 {
				row.Values[col] = Round(Mean(vs), ScoreDecimals)
			}
		}
		if len(acc.breakdown) > 0 {
			row.Breakdown = make(map[schema.MetricKey]float64, len(acc.breakdown))
			for k, vs := range acc.breakdown {
				row.Breakdown[k] = Mean(vs)
			}
		}
		rows = append(rows, row)
	}

	return schema.ScoredTable{
		Level:      schema.DistrictLevel,
		Rows:       RankEntities(rows),
		TotalCount: len(rows),
		Scale:      scored.Scale,
	}
}

// districtCode derives the district part of a 14-digit CDS code (county + district).
func districtCode(cds string) string {
	if len(cds) >= 7 {
		return cds[:7]
	}
	return ""
}
