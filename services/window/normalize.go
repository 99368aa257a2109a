package window

import "math"

// Sanitize maps an arbitrary float to a guaranteed-finite value: finite
// values pass through unchanged, NaN and ±Inf become 0. Pure and total —
// downstream consumers rely on it never failing.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// AxisBatch carries the per-axis value arrays handed to the chart consumer.
// After Normalize all three arrays have the same length and stay
// index-aligned: element k of X, Y and Z came from the same sample.
type AxisBatch struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// NormalizeAxis forces one axis array to exactly length n: every element is
// sanitized, a longer array keeps only its most recent n elements, a shorter
// one is front-padded with zeros. Element order is preserved, and the result
// is idempotent for a fixed n.
func NormalizeAxis(values []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	src := values
	if len(src) > n {
		src = src[len(src)-n:]
	}
	pad := n - len(src)
	for i, v := range src {
		out[pad+i] = Sanitize(v)
	}
	return out
}

// Normalize applies NormalizeAxis to every array in the batch independently.
func Normalize(batch AxisBatch, n int) AxisBatch {
	return AxisBatch{
		X: NormalizeAxis(batch.X, n),
		Y: NormalizeAxis(batch.Y, n),
		Z: NormalizeAxis(batch.Z, n),
	}
}
