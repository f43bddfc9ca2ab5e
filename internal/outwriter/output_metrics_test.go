package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/huangsam/schoolfit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func sampleMetricsModel() schema.MetricsRenderModel {
	math, _ := schema.DefaultRegistry.Resolve(schema.MathKey)
	size, _ := schema.DefaultRegistry.Resolve(schema.ClassSizeKey)
	disadv, _ := schema.DefaultRegistry.Resolve(schema.DisadvantagedKey)
	el, _ := schema.DefaultRegistry.Resolve(schema.EnglishLearnerKey)

	return schema.MetricsRenderModel{
		Title:    "Custom Fit Score",
		Method:   schema.PercentileMethod,
		Exponent: 0.7,
		Scale:    10,
		Formula:  "score = weighted mean",

		TotalWeight: 16,
		Groups: []schema.MetricGroupView{
			{Name: schema.AcademicGroup, Metrics: []schema.MetricSetting{{MetricDefinition: math, Weight: 8, Present: true}}},
			{Name: schema.EnvironmentGroup, Metrics: []schema.MetricSetting{{MetricDefinition: size, Weight: 5, Present: false}}},
			{Name: schema.DemographicsGroup, Metrics: []schema.MetricSetting{
				{MetricDefinition: disadv, Weight: 3, Target: f64(50), TargetLabel: "Mixed", Present: true},
				{MetricDefinition: el, Weight: 0, Target: f64(37), Present: true},
			}},
		},
	}
}

func TestFormatPreference(t *testing.T) {
	model := sampleMetricsModel()

	assert.Equal(t, "higher is better", formatPreference(model.Groups[0].Metrics[0]))
	assert.Equal(t, "lower is better", formatPreference(model.Groups[1].Metrics[0]))
	assert.Equal(t, "Mixed (50%)", formatPreference(model.Groups[2].Metrics[0]))
	assert.Equal(t, "near 37%", formatPreference(model.Groups[2].Metrics[1]))

	unset := model.Groups[2].Metrics[1]
	unset.Target = nil
	assert.Equal(t, "target unset", formatPreference(unset))
}

func TestWriteMetricsText(t *testing.T) {
	cfg := testConfig()
	cfg.Detail = true

	var buf bytes.Buffer
	require.NoError(t, writeMetricsText(&buf, sampleMetricsModel(), cfg))

	out := buf.String()
	assert.Contains(t, out, "🏫 Custom Fit Score")
	assert.Contains(t, out, "Formula: score = weighted mean")
	assert.Contains(t, out, "Normalization: percentile, exponent 0.7, scale 0-10")
	assert.Contains(t, out, "Total weight: 16\n")
	assert.Contains(t, out, schema.AcademicGroup)
	assert.Contains(t, out, schema.DemographicsGroup)
	assert.Contains(t, out, "Math Proficiency")
	assert.Contains(t, out, "Mixed (50%)")
	assert.Contains(t, out, "stronger")
}

func TestWriteMetricsTextZeroWeight(t *testing.T) {
	model := sampleMetricsModel()
	model.TotalWeight = 0

	var buf bytes.Buffer
	require.NoError(t, writeMetricsText(&buf, model, testConfig()))
	assert.Contains(t, buf.String(), "Total weight: 0 (every result scores 5)")
}

func TestWriteCSVMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVMetrics(&buf, sampleMetricsModel()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"group", "key", "label", "mode", "direction", "weight", "target", "target_label", "present"}, records[0])
	assert.Equal(t, []string{schema.AcademicGroup, "SMATH_Y1", "Math Proficiency", "linear", "higher", "8", "", "", "true"}, records[1])
	assert.Equal(t, []string{schema.EnvironmentGroup, "AVG_SIZE", "Class Size", "linear", "lower", "5", "", "", "false"}, records[2])
	assert.Equal(t, []string{schema.DemographicsGroup, "PERDI", "Socio-Econ Disadvantaged", "target", "", "3", "50", "Mixed", "true"}, records[3])
}

func TestPrintMetricsDefinitions_JSON(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = t.TempDir() + "/metrics.json"

	require.NoError(t, PrintMetricsDefinitions(sampleMetricsModel(), cfg))

	var got schema.MetricsRenderModel
	require.NoError(t, json.Unmarshal(readFile(t, cfg.OutputFile), &got))
	assert.Equal(t, "Custom Fit Score", got.Title)
	require.Len(t, got.Groups, 3)
	assert.Equal(t, "Mixed", got.Groups[2].Metrics[0].TargetLabel)
}
