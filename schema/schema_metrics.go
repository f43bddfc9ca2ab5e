package schema

// MetricSetting is one metric as it will be applied by the current settings.
type MetricSetting struct {
	MetricDefinition
	Weight      int      `json:"weight"`
	Target      *float64 `json:"target,omitempty"`
	TargetLabel string   `json:"target_label,omitempty"`
	Present     bool     `json:"present"` // column exists in the loaded table
}

// MetricGroupView is a display group with its resolved settings.
type MetricGroupView struct {
	Name    string          `json:"name"`
	Metrics []MetricSetting `json:"metrics"`
}

// MetricsRenderModel contains all processed data needed for displaying metric definitions.
type MetricsRenderModel struct {
	Title    string              `json:"title"`
	Method   NormalizationMethod `json:"method"`
	Exponent float64             `json:"exponent"`
	Scale    float64             `json:"scale"`
	Formula  string              `json:"formula"`
	Groups   []MetricGroupView   `json:"groups"`

	// TotalWeight sums every active weight; zero means every entity gets the neutral score.
	TotalWeight int `json:"total_weight"`
}
