package views

import (
	"fmt"

	"motion-logger/models"
)

// Session log layout. This file is the single source of truth for the
// on-disk naming and column ordering of the per-stream log files.

// LogColumns is the canonical column list for every stream log. The header
// writing itself goes through models.Sample.CSVHeader; this is kept as a
// human-readable reference and for validation.
var LogColumns = []string{"timestamp", "x", "y", "z"}

// LogFileName returns the file name for one stream within a session:
//
//	<token>_<stream>.log
func LogFileName(token string, stream models.Stream) string {
	return fmt.Sprintf("%s_%s.log", token, stream)
}
