package views

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LogWriter appends CSV rows to one session log file.
//
// Design decisions:
//   - Underlying bufio.Writer absorbs write syscall overhead.
//   - The header is flushed to disk at creation, so a freshly started
//     session's files are immediately valid CSV.
//   - Row appends stay buffered; the session controller's drain goroutine
//     flushes periodically and on close, so the append path never blocks
//     on a syscall.
type LogWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewLogWriter creates the file and writes the CSV header line. On any
// failure no file handle is leaked; the caller decides whether to remove a
// partially created file.
func NewLogWriter(path string, header []string) (*LogWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("log create %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 32*1024)
	cw := csv.NewWriter(bw)

	w := &LogWriter{
		path: path,
		file: f,
		buf:  bw,
		csv:  cw,
	}

	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("log write header: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("log flush header: %w", err)
	}

	return w, nil
}

// Path returns the file path this writer appends to.
func (w *LogWriter) Path() string { return w.path }

// WriteRow appends a single CSV row. Thread-safe. A returned error covers
// this row only; the writer stays usable for subsequent rows.
func (w *LogWriter) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.rows++
	return w.csv.Error()
}

// Flush pushes buffered rows to the OS.
func (w *LogWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Close flushes remaining rows and closes the file.
func (w *LogWriter) Close() error {
	flushErr := w.Flush()
	w.mu.Lock()
	closeErr := w.file.Close()
	w.mu.Unlock()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Rows returns the number of data rows written (excludes the header).
func (w *LogWriter) Rows() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// ExportURIs converts finished session log paths into file:// URIs for the
// external share mechanism. No format transformation is applied.
func ExportURIs(paths []string) ([]string, error) {
	uris := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("export resolve %s: %w", p, err)
		}
		uris = append(uris, "file://"+abs)
	}
	return uris, nil
}
