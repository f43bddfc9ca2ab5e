package algo

import (
	"math"
	"sort"
)

// Median returns the median of values, or 0 for an empty slice.
// The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PercentileRank returns, for every value, its position in the distribution
// scaled to [0,1]: (count of values <= x, minus one) / (n - 1).
// Duplicates share the same rank. A single value, or a column where every
// value is equal, ranks 1.0 throughout.
func PercentileRank(values []float64) []float64 {
	n := len(values)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}
	if n == 1 {
		ranks[0] = 1
		return ranks
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	// Walk runs of equal values; every member of a run gets the run's upper count.
	for start := 0; start < n; {
		end := start
		for end+1 < n && values[idx[end+1]] == values[idx[start]] {
			end++
		}
		r := float64(end) / float64(n-1)
		for k := start; k <= end; k++ {
			ranks[idx[k]] = r
		}
		start = end + 1
	}
	return ranks
}

// MinMaxScale maps values linearly onto [0,1] using the column min and max.
// A column where every value is equal maps to 1.0 throughout.
func MinMaxScale(values []float64) []float64 {
	scaled := make([]float64, len(values))
	if len(values) == 0 {
		return scaled
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			scaled[i] = 1
			continue
		}
		scaled[i] = (v - lo) / span
	}
	return scaled
}

// WeightedMean returns Σ(w·x)/Σw. It reports false when the total weight is zero.
func WeightedMean(values, weights []float64) (float64, bool) {
	var sum, total float64
	for i, v := range values {
		if i >= len(weights) {
			break
		}
		sum += weights[i] * v
		total += weights[i]
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Round rounds half to even at the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}

// clamp01 clips v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
