package algo

import (
	"math"

	"github.com/huangsam/schoolfit/schema"
)

// Normalizer turns one raw metric column into per-entity goodness scores in [0,1].
type Normalizer struct {
	Method   schema.NormalizationMethod
	Exponent float64
}

// NewNormalizer builds a normalizer from engine options.
func NewNormalizer(opts Options) Normalizer {
	n := Normalizer{Method: opts.Method, Exponent: opts.Exponent}
	if n.Method == "" {
		n.Method = schema.PercentileMethod
	}
	if n.Exponent <= 0 {
		n.Exponent = DefaultExponent
	}
	return n
}

// Normalize imputes, ranks and curves a raw column according to the metric definition.
// target is ignored for linear metrics.
func (n Normalizer) Normalize(raw []any, def schema.MetricDefinition, target float64) []float64 {
	values := Impute(raw)

	var scores []float64
	switch def.Mode {
	case schema.TargetMode:
		distance := make([]float64, len(values))
		for i, v := range values {
			distance[i] = math.Abs(v - target)
		}
		scores = invert(n.rank(distance))
	default:
		scores = n.rank(values)
		if def.Direction == schema.LowerIsBetter {
			scores = invert(scores)
		}
	}
	return n.Curve(scores)
}

// Curve applies clip(score, 0, 1) ^ Exponent in place and returns the slice.
func (n Normalizer) Curve(scores []float64) []float64 {
	for i, s := range scores {
		scores[i] = math.Pow(clamp01(s), n.Exponent)
	}
	return scores
}

// rank dispatches to the configured normalization method.
func (n Normalizer) rank(values []float64) []float64 {
	if n.Method == schema.MinMaxMethod {
		return MinMaxScale(values)
	}
	return PercentileRank(values)
}

// invert maps every score s to 1 - s in place.
func invert(scores []float64) []float64 {
	for i, s := range scores {
		scores[i] = 1 - s
	}
	return scores
}
