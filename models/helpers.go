package models

import (
	"strconv"
)

// ─── shared formatting helpers (package-private) ────────────────────────

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }

// ftoa renders a float with the shortest representation that round-trips,
// so logged values keep full precision ("-2" stays "-2", not "-2.000000").
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// CSVRowWriter is the interface every loggable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}
