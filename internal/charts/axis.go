package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"findings.ee105.org/internal/utils"
)

// niceMax rounds max up to 1, 2, 2.5 or 5 times a power of ten.
func niceMax(max float64) float64 {
	if math.IsNaN(max) || math.IsInf(max, 0) || max <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(max)))
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		if c*mag >= max {
			return c * mag
		}
	}
	return 10 * mag
}

// niceTicks generates up to n tick marks between [min, max] using nice increments.
func niceTicks(min, max float64, n int, format func(float64) string) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	bestStep, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil((max-min)/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore, bestStep = score, step
		}
	}

	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var ticks []chart.Tick
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: format(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

// valueRange returns the x or y span of a set of slices, padding a zero-width span.
func valueRange(values ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	if hi == lo {
		return lo - 1, hi + 1
	}
	return lo, hi
}

func thousands(decimals int) func(float64) string {
	return func(v float64) string {
		return utils.FormatThousands(v, decimals)
	}
}

func valueFormatter(format func(float64) string) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return format(f)
		}
		return ""
	}
}
