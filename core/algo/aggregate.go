package algo

// ScoreDecimals is the precision of every published aggregate score.
const ScoreDecimals = 1

// WeightedColumn is one normalized metric column and the weight it carries.
type WeightedColumn struct {
	Scores []float64
	Weight float64
}

// Aggregate combines normalized columns into one score per entity on [0, scale].
// When the total weight is zero every entity gets the midpoint of the scale.
func Aggregate(columns []WeightedColumn, n int, scale float64) []float64 {
	out := make([]float64, n)
	values := make([]float64, len(columns))
	weights := make([]float64, len(columns))
	for j, c := range columns {
		weights[j] = c.Weight
	}

	for i := range out {
		for j, c := range columns {
			values[j] = c.Scores[i]
		}
		mean, ok := WeightedMean(values, weights)
		if !ok {
			out[i] = Round(scale/2, ScoreDecimals)
			continue
		}
		out[i] = Round(mean*scale, ScoreDecimals)
	}
	return out
}
