package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// PercentileMethod represents different methods for calculating percentiles
type PercentileMethod int

const (
	// Linear interpolation between closest ranks (R-7, numpy and Excel default)
	Linear PercentileMethod = iota

	// Lower value of the two closest ranks
	Lower

	// Higher value of the two closest ranks
	Higher

	// Midpoint of the two closest ranks
	Midpoint

	// Inverse of the empirical CDF (R-1), no interpolation
	Empirical
)

// Percentiles computes percentiles of magnitude data.
//
// References:
//   - Hyndman, R.J., Fan, Y. (1996). "Sample Quantiles in Statistical Packages"
//     The American Statistician, 50(4), 361-365
type Percentiles struct {
	method PercentileMethod
}

// NewPercentiles creates a new percentile calculator with linear interpolation
func NewPercentiles() *Percentiles {
	return &Percentiles{method: Linear}
}

// NewPercentilesWithMethod creates a percentile calculator with the specified method
func NewPercentilesWithMethod(method PercentileMethod) *Percentiles {
	return &Percentiles{method: method}
}

// CalculatePercentile computes a single percentile value (0..100).
// The input is not modified.
func (p *Percentiles) CalculatePercentile(data []float64, percentile float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty data")
	}

	if percentile < 0 || percentile > 100 || math.IsNaN(percentile) {
		return 0, fmt.Errorf("percentile must be between 0 and 100, got %v", percentile)
	}

	values := make([]float64, len(data))
	copy(values, data)
	sort.Float64s(values)

	return p.calculatePercentile(values, percentile/100.0), nil
}

func (p *Percentiles) calculatePercentile(sortedData []float64, q float64) float64 {
	if p.method == Empirical {
		return stat.Quantile(q, stat.Empirical, sortedData, nil)
	}

	n := len(sortedData)
	if n == 1 {
		return sortedData[0]
	}

	// 0-based fractional rank, h = (n-1) * q
	h := float64(n-1) * q
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if upper >= n {
		upper = n - 1
	}
	if lower >= n {
		lower = n - 1
	}

	switch p.method {
	case Lower:
		return sortedData[lower]
	case Higher:
		return sortedData[upper]
	case Midpoint:
		return (sortedData[lower] + sortedData[upper]) / 2.0
	default:
		fraction := h - float64(lower)
		return sortedData[lower] + fraction*(sortedData[upper]-sortedData[lower])
	}
}

// GetMethodName returns the name of the current calculation method
func (p *Percentiles) GetMethodName() string {
	switch p.method {
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Midpoint:
		return "midpoint"
	case Empirical:
		return "empirical"
	default:
		return "linear"
	}
}

// ParseMethod maps a method name (as returned by GetMethodName) to its
// PercentileMethod. An empty name selects Linear.
func ParseMethod(name string) (PercentileMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "lower":
		return Lower, nil
	case "higher":
		return Higher, nil
	case "midpoint":
		return Midpoint, nil
	case "empirical":
		return Empirical, nil
	}
	return Linear, fmt.Errorf("unknown percentile method %q", name)
}

// Percentile is a convenience wrapper using linear interpolation.
func Percentile(data []float64, percentile float64) (float64, error) {
	return NewPercentiles().CalculatePercentile(data, percentile)
}
