package models

// Axes is one raw 3-axis reading exactly as a source delivered it, before
// the dispatcher stamps it with an arrival time. Axis values may be
// non-finite; sanitization happens on the display path, not here.
type Axes struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sample is one timestamped 3-axis reading. Immutable once created.
type Sample struct {
	TimestampMs int64   `json:"timestamp_ms"` // epoch millis, assigned at arrival
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
}

func (Sample) CSVHeader() []string {
	return []string{"timestamp", "x", "y", "z"}
}

// CSVRow formats the raw values at full precision. Log rows carry values
// verbatim as received; rounding or sanitizing here would lose fidelity.
func (s *Sample) CSVRow() []string {
	return []string{
		itoa64(s.TimestampMs),
		ftoa(s.X), ftoa(s.Y), ftoa(s.Z),
	}
}
