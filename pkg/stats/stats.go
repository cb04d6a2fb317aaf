// Package stats provides statistical helpers shared by the analyzers.
package stats

import "gonum.org/v1/gonum/stat"

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// MeanInts returns the mean of integer samples, 0 for an empty slice.
func MeanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	fs := make([]float64, len(values))
	for i, v := range values {
		fs[i] = float64(v)
	}
	return stat.Mean(fs, nil)
}

// Percentage returns part over total as a percentage, 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
