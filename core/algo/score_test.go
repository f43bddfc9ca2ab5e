package algo

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// school builds a test entity with raw metric cells.
func school(district, name string, values map[schema.MetricKey]any) schema.Entity {
	return schema.Entity{County: "San Diego", District: district, School: name, Values: values}
}

// onlyWeights builds settings where the given metrics carry weight and the rest are zero.
func onlyWeights(t *testing.T, weights map[schema.MetricKey]int, targets map[schema.MetricKey]float64) Settings {
	t.Helper()
	entries := make(map[schema.MetricKey]Setting)
	for _, k := range schema.DefaultRegistry.Keys() {
		entries[k] = Setting{Weight: weights[k]}
	}
	for k, v := range targets {
		e := entries[k]
		e.Target = ptr(v)
		entries[k] = e
	}
	s, err := NewSettings(schema.DefaultRegistry, entries, DefaultOptions())
	require.NoError(t, err)
	return s
}

func allColumns() []schema.MetricKey {
	return schema.DefaultRegistry.Keys()
}

func TestScoreScenarioSingleLinearMetric(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey, schema.ELAKey, schema.ClassSizeKey},
		Rows: []schema.Entity{
			school("D1", "X", map[schema.MetricKey]any{schema.MathKey: 80.0, schema.ELAKey: 70.0, schema.ClassSizeKey: 20.0}),
			school("D1", "Y", map[schema.MetricKey]any{schema.MathKey: 60.0, schema.ELAKey: 90.0, schema.ClassSizeKey: 25.0}),
		},
	}
	settings := onlyWeights(t, map[schema.MetricKey]int{schema.MathKey: 10}, nil)

	result := Score(table, settings)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "X", result.Rows[0].School)
	assert.Equal(t, 10.0, result.Rows[0].Score)
	assert.Equal(t, 1, result.Rows[0].Rank)
	assert.Equal(t, 1.0, result.Rows[0].Breakdown[schema.MathKey])

	assert.Equal(t, "Y", result.Rows[1].School)
	assert.Equal(t, 0.0, result.Rows[1].Score)
	assert.Equal(t, 2, result.Rows[1].Rank)
	assert.Equal(t, 0.0, result.Rows[1].Breakdown[schema.MathKey])
}

func TestScoreScenarioTargetMetric(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.DisadvantagedKey},
		Rows: []schema.Entity{
			school("D1", "High", map[schema.MetricKey]any{schema.DisadvantagedKey: 95.0}),
			school("D1", "Low", map[schema.MetricKey]any{schema.DisadvantagedKey: 5.0}),
		},
	}
	settings := onlyWeights(t,
		map[schema.MetricKey]int{schema.DisadvantagedKey: 10},
		map[schema.MetricKey]float64{schema.DisadvantagedKey: 0},
	)

	result := Score(table, settings)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Low", result.Rows[0].School)
	assert.Equal(t, 1, result.Rows[0].Rank)
	assert.Greater(t, result.Rows[0].Score, result.Rows[1].Score)
}

func TestScoreScenarioAllWeightsZero(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 10.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.MathKey: 90.0}),
		},
	}
	settings := onlyWeights(t, nil, nil)

	result := Score(table, settings)

	for _, r := range result.Rows {
		assert.Equal(t, 5.0, r.Score)
		assert.Equal(t, 1, r.Rank)
		assert.Empty(t, r.Breakdown)
	}
	// Ties keep input order.
	assert.Equal(t, "A", result.Rows[0].School)
}

func TestScoreNeutralOnOtherScales(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey},
		Rows:    []schema.Entity{school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 10.0})},
	}
	s, err := NewSettings(nil, map[schema.MetricKey]Setting{schema.MathKey: {Weight: 0}}, Options{Scale: 100, Exponent: 0.7})
	require.NoError(t, err)

	result := Score(table, s)
	assert.Equal(t, 50.0, result.Rows[0].Score)
	assert.Equal(t, 100.0, result.Scale)
}

func TestScoreRankMonotonicity(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.ELAKey},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.ELAKey: 41.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.ELAKey: 77.5}),
			school("D2", "C", map[schema.MetricKey]any{schema.ELAKey: 12.0}),
			school("D2", "D", map[schema.MetricKey]any{schema.ELAKey: 63.0}),
		},
	}
	settings := onlyWeights(t, map[schema.MetricKey]int{schema.ELAKey: 7}, nil)

	result := Score(table, settings)

	top := result.Rows[0]
	assert.Equal(t, "B", top.School)
	assert.Equal(t, 1, top.Rank)
	for _, r := range result.Rows[1:] {
		assert.Less(t, r.Breakdown[schema.ELAKey], top.Breakdown[schema.ELAKey])
		assert.Greater(t, r.Rank, top.Rank)
	}
}

func TestScoreLowerIsBetter(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.ClassSizeKey},
		Rows: []schema.Entity{
			school("D1", "Big", map[schema.MetricKey]any{schema.ClassSizeKey: 32.0}),
			school("D1", "Small", map[schema.MetricKey]any{schema.ClassSizeKey: 18.0}),
			school("D1", "Mid", map[schema.MetricKey]any{schema.ClassSizeKey: 24.0}),
		},
	}
	settings := onlyWeights(t, map[schema.MetricKey]int{schema.ClassSizeKey: 5}, nil)

	result := Score(table, settings)

	assert.Equal(t, []string{"Small", "Mid", "Big"}, schools(result))
	assert.Equal(t, 10.0, result.Rows[0].Score)
	assert.Equal(t, 0.0, result.Rows[2].Score)
}

func TestScoreTargetSymmetry(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.EnglishLearnerKey},
		Rows: []schema.Entity{
			school("D1", "Below", map[schema.MetricKey]any{schema.EnglishLearnerKey: 40.0}),
			school("D1", "Far", map[schema.MetricKey]any{schema.EnglishLearnerKey: 95.0}),
			school("D1", "Above", map[schema.MetricKey]any{schema.EnglishLearnerKey: 60.0}),
			school("D1", "Near", map[schema.MetricKey]any{schema.EnglishLearnerKey: 52.0}),
		},
	}
	settings := onlyWeights(t,
		map[schema.MetricKey]int{schema.EnglishLearnerKey: 4},
		map[schema.MetricKey]float64{schema.EnglishLearnerKey: 50},
	)

	result := Score(table, settings)
	byName := index(result)

	assert.Equal(t, byName["Below"].Breakdown[schema.EnglishLearnerKey], byName["Above"].Breakdown[schema.EnglishLearnerKey])
	assert.Equal(t, byName["Below"].Score, byName["Above"].Score)
	assert.Equal(t, byName["Below"].Rank, byName["Above"].Rank)
	assert.Equal(t, "Near", result.Rows[0].School)
	assert.Equal(t, "Far", result.Rows[3].School)
}

func TestScoreWeightInvariance(t *testing.T) {
	table := sampleTable()
	base := onlyWeights(t, map[schema.MetricKey]int{schema.MathKey: 2, schema.ELAKey: 3, schema.DisabilityKey: 1}, nil)
	scaled := onlyWeights(t, map[schema.MetricKey]int{schema.MathKey: 4, schema.ELAKey: 6, schema.DisabilityKey: 2}, nil)

	a := Score(table, base)
	b := Score(table, scaled)

	require.Len(t, b.Rows, len(a.Rows))
	for i := range a.Rows {
		assert.Equal(t, a.Rows[i].School, b.Rows[i].School)
		assert.Equal(t, a.Rows[i].Score, b.Rows[i].Score)
		assert.Equal(t, a.Rows[i].Rank, b.Rows[i].Rank)
	}
}

func TestScoreIdempotent(t *testing.T) {
	table := sampleTable()
	settings := DefaultSettings(nil)

	first, err := json.Marshal(Score(table, settings))
	require.NoError(t, err)
	second, err := json.Marshal(Score(table, settings))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstDistricts, err := json.Marshal(ScoreDistricts(table, settings))
	require.NoError(t, err)
	secondDistricts, err := json.Marshal(ScoreDistricts(table, settings))
	require.NoError(t, err)
	assert.Equal(t, firstDistricts, secondDistricts)
}

func TestScoreEmptyTable(t *testing.T) {
	result := Score(schema.Table{}, DefaultSettings(nil))
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, schema.SchoolLevel, result.Level)

	districts := ScoreDistricts(schema.Table{}, DefaultSettings(nil))
	assert.Empty(t, districts.Rows)
	assert.Equal(t, 0, districts.TotalCount)
}

func TestScoreSkipsMissingAndUnknownColumns(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey, "ENROLLMENT"},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 90.0, "ENROLLMENT": 100, schema.ELAKey: 10.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.MathKey: 50.0, "ENROLLMENT": 900, schema.ELAKey: 99.0}),
		},
	}
	s, err := NewSettings(nil, map[schema.MetricKey]Setting{
		schema.MathKey: {Weight: 5},
		schema.ELAKey:  {Weight: 10}, // not a table column, so skipped
		"ENROLLMENT":   {Weight: 10}, // not in the registry, so skipped
	}, DefaultOptions())
	require.NoError(t, err)

	result := Score(table, s)

	assert.Equal(t, "A", result.Rows[0].School)
	assert.Equal(t, 10.0, result.Rows[0].Score)
	assert.Equal(t, 0.0, result.Rows[1].Score)
	assert.NotContains(t, result.Rows[0].Breakdown, schema.ELAKey)
	assert.NotContains(t, result.Rows[0].Breakdown, schema.MetricKey("ENROLLMENT"))
}

func TestScoreImputesUnparsableCells(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 10.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.MathKey: "*"}),
			school("D1", "C", map[schema.MetricKey]any{schema.MathKey: 30.0}),
			school("D1", "D", map[schema.MetricKey]any{}),
		},
	}
	settings := onlyWeights(t, map[schema.MetricKey]int{schema.MathKey: 10}, nil)

	result := Score(table, settings)
	byName := index(result)

	// B and D take the median (20) and tie between A and C.
	assert.Equal(t, byName["B"].Score, byName["D"].Score)
	assert.Equal(t, byName["B"].Rank, byName["D"].Rank)
	assert.Greater(t, byName["B"].Score, byName["A"].Score)
	assert.Less(t, byName["B"].Score, byName["C"].Score)
}

func TestScoreSingleValueColumn(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 50.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.MathKey: 50.0}),
		},
	}
	settings := onlyWeights(t, map[schema.MetricKey]int{schema.MathKey: 3}, nil)

	result := Score(table, settings)
	for _, r := range result.Rows {
		assert.Equal(t, 10.0, r.Score)
		assert.Equal(t, 1, r.Rank)
	}
}

func TestScoreMinMaxMethod(t *testing.T) {
	table := schema.Table{
		Columns: []schema.MetricKey{schema.MathKey},
		Rows: []schema.Entity{
			school("D1", "A", map[schema.MetricKey]any{schema.MathKey: 0.0}),
			school("D1", "B", map[schema.MetricKey]any{schema.MathKey: 10.0}),
			school("D1", "C", map[schema.MetricKey]any{schema.MathKey: 100.0}),
		},
	}
	s, err := NewSettings(nil, map[schema.MetricKey]Setting{schema.MathKey: {Weight: 1}},
		Options{Scale: 100, Exponent: 1, Method: schema.MinMaxMethod})
	require.NoError(t, err)

	byName := index(Score(table, s))
	assert.Equal(t, 100.0, byName["C"].Score)
	assert.Equal(t, 10.0, byName["B"].Score)
	assert.Equal(t, 0.0, byName["A"].Score)

	// Percentile rank spaces the same values evenly instead.
	s, err = s.WithOptions(Options{Scale: 100, Exponent: 1, Method: schema.PercentileMethod})
	require.NoError(t, err)
	byName = index(Score(table, s))
	assert.Equal(t, 50.0, byName["B"].Score)
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	table := sampleTable()
	before, err := json.Marshal(table)
	require.NoError(t, err)

	_ = Score(table, DefaultSettings(nil))
	_ = ScoreDistricts(table, DefaultSettings(nil))

	after, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestScoreConcurrentCallers(t *testing.T) {
	table := sampleTable()
	expected := Score(table, DefaultSettings(nil))

	var wg sync.WaitGroup
	results := make([]schema.ScoredTable, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Score(table, DefaultSettings(nil))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestScoreLevel(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, schema.SchoolLevel, ScoreLevel(table, DefaultSettings(nil), schema.SchoolLevel).Level)
	assert.Equal(t, schema.DistrictLevel, ScoreLevel(table, DefaultSettings(nil), schema.DistrictLevel).Level)
}

// sampleTable is a small multi-district table using every registered metric.
func sampleTable() schema.Table {
	return schema.Table{
		Columns: allColumns(),
		Rows: []schema.Entity{
			school("Encinitas Union", "El Camino Creek", map[schema.MetricKey]any{
				schema.MathKey: 78.2, schema.ELAKey: 81.0, schema.ClassSizeKey: 24.1,
				schema.DisadvantagedKey: 9.5, schema.EnglishLearnerKey: 6.0, schema.DisabilityKey: 11.2,
			}),
			school("Encinitas Union", "Olivenhain Pioneer", map[schema.MetricKey]any{
				schema.MathKey: 71.0, schema.ELAKey: 74.3, schema.ClassSizeKey: 22.0,
				schema.DisadvantagedKey: 14.0, schema.EnglishLearnerKey: 9.0, schema.DisabilityKey: 12.8,
			}),
			school("Del Mar Union", "Sage Canyon", map[schema.MetricKey]any{
				schema.MathKey: 85.5, schema.ELAKey: 83.9, schema.ClassSizeKey: 23.5,
				schema.DisadvantagedKey: 4.1, schema.EnglishLearnerKey: 7.7, schema.DisabilityKey: 9.9,
			}),
			school("Vista Unified", "Grapevine", map[schema.MetricKey]any{
				schema.MathKey: "31.4", schema.ELAKey: 40.2, schema.ClassSizeKey: nil,
				schema.DisadvantagedKey: 71.0, schema.EnglishLearnerKey: 33.0, schema.DisabilityKey: 14.5,
			}),
			school("Vista Unified", "Bobier", map[schema.MetricKey]any{
				schema.MathKey: 22.9, schema.ELAKey: "*", schema.ClassSizeKey: 27.3,
				schema.DisadvantagedKey: 88.2, schema.EnglishLearnerKey: 41.5, schema.DisabilityKey: 15.0,
			}),
		},
	}
}

func schools(st schema.ScoredTable) []string {
	out := make([]string, len(st.Rows))
	for i, r := range st.Rows {
		out[i] = r.School
	}
	return out
}

func index(st schema.ScoredTable) map[string]schema.ScoredEntity {
	out := make(map[string]schema.ScoredEntity, len(st.Rows))
	for _, r := range st.Rows {
		out[r.School] = r
	}
	return out
}
