package core

import (
	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/schema"
)

// metricsTitle heads the metrics listing.
const metricsTitle = "Custom Fit Score"

// metricsFormula describes the aggregation in one line.
const metricsFormula = "score = round(Σ wᵢ · normᵢ^exponent / Σ wᵢ × scale, 1)"

// BuildMetricsModel resolves every registry metric against the settings in
// force. When table is nil all metrics are marked present.
func BuildMetricsModel(settings algo.Settings, table *schema.Table) schema.MetricsRenderModel {
	reg := settings.Registry()
	opts := settings.Options()
	model := schema.MetricsRenderModel{
		Title:    metricsTitle,
		Method:   opts.Method,
		Exponent: opts.Exponent,
		Scale:    opts.Scale,
		Formula:  metricsFormula,

		TotalWeight: settings.TotalWeight(),
	}

	for _, group := range reg.Groups() {
		view := schema.MetricGroupView{Name: group.Name}
		for _, key := range group.Keys {
			def, ok := reg.Resolve(key)
			if !ok {
				continue
			}
			view.Metrics = append(view.Metrics, metricSetting(def, settings, table))
		}
		model.Groups = append(model.Groups, view)
	}
	return model
}

func metricSetting(def schema.MetricDefinition, settings algo.Settings, table *schema.Table) schema.MetricSetting {
	ms := schema.MetricSetting{
		MetricDefinition: def,
		Present:          table == nil || table.HasColumn(def.Key),
	}
	s, ok := settings.Get(def.Key)
	if !ok {
		return ms
	}
	ms.Weight = s.Weight
	if def.Mode == schema.TargetMode && s.Target != nil {
		target := *s.Target
		ms.Target = &target
		for _, opt := range def.Options {
			if opt.Value == target {
				ms.TargetLabel = opt.Label
				break
			}
		}
	}
	return ms
}
