package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"motion-logger/models"
	"motion-logger/utils"
	"motion-logger/views"
)

// ErrSessionActive is returned by Start while a session is already running.
var ErrSessionActive = errors.New("logging session already active")

// appendQueueSize bounds in-flight rows per stream. At a 100ms sample
// interval this is well over a minute of backlog before anything drops.
const appendQueueSize = 1024

// SessionController governs one logging session at a time: Idle until Start
// creates the two per-stream log files, Active while rows are appended,
// Idle again after Stop.
//
// Appends for a stream are serialized by a dedicated drain goroutine fed
// from that stream's queue, so rows land in the file in arrival order even
// though the append call itself never blocks. Stop closes the queues and
// lets already-submitted rows drain to the files; the paths stay published
// for export until the next Start.
type SessionController struct {
	mu      sync.RWMutex
	baseDir string

	active bool
	token  string
	queues map[models.Stream]chan *models.Sample

	// last session's file paths, in models.Streams() order; survive Stop
	paths []string

	wg       sync.WaitGroup
	appended uint64
	dropped  uint64
}

// NewSessionController creates an Idle controller that will place session
// files under baseDir.
func NewSessionController(baseDir string) *SessionController {
	return &SessionController{baseDir: baseDir}
}

// Start transitions Idle → Active: derives a session token from the wall
// clock, creates one header-initialized log file per stream and launches
// the per-stream drain goroutines. On any creation failure the transition
// does not complete — state stays Idle, partially created files are
// removed, and no paths are published. Returns ErrSessionActive if a
// session is already running.
func (c *SessionController) Start() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return "", ErrSessionActive
	}

	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	token := utils.SessionToken(time.Now())
	writers := make(map[models.Stream]*views.LogWriter, 2)
	paths := make([]string, 0, 2)

	for _, stream := range models.Streams() {
		path := filepath.Join(c.baseDir, views.LogFileName(token, stream))
		w, err := views.NewLogWriter(path, models.Sample{}.CSVHeader())
		if err != nil {
			for _, created := range writers {
				created.Close()
				os.Remove(created.Path())
			}
			return "", fmt.Errorf("start session %s: %w", token, err)
		}
		writers[stream] = w
		paths = append(paths, path)
	}

	c.token = token
	c.paths = paths
	c.queues = make(map[models.Stream]chan *models.Sample, 2)
	for _, stream := range models.Streams() {
		q := make(chan *models.Sample, appendQueueSize)
		c.queues[stream] = q
		c.wg.Add(1)
		go c.drain(stream, writers[stream], q)
	}

	c.active = true
	atomic.StoreUint64(&c.appended, 0)
	atomic.StoreUint64(&c.dropped, 0)

	utils.L().Info("logging session %s started (dir=%s)", token, c.baseDir)
	return token, nil
}

// Append submits one raw sample for the stream's log. It never blocks and
// never fails: when no session is active it is a no-op, and when the
// stream's queue is full the row is dropped and counted. A dropped or
// failed append must not disturb the live display path.
func (c *SessionController) Append(stream models.Stream, s *models.Sample) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.active {
		return
	}
	q, ok := c.queues[stream]
	if !ok {
		return
	}
	select {
	case q <- s:
	default:
		atomic.AddUint64(&c.dropped, 1)
		utils.L().Warn("session: %s append queue full, dropping row", stream)
	}
}

// drain serializes one stream's appends: rows reach the file in exactly the
// order they were submitted. Write errors are reported and the row dropped;
// the session keeps running.
func (c *SessionController) drain(stream models.Stream, w *views.LogWriter, q <-chan *models.Sample) {
	defer c.wg.Done()

	flush := time.NewTicker(500 * time.Millisecond)
	defer flush.Stop()

	for {
		select {
		case s, ok := <-q:
			if !ok {
				if err := w.Close(); err != nil {
					utils.L().Error("session: close %s log: %v", stream, err)
				}
				return
			}
			if err := w.WriteRow(s.CSVRow()); err != nil {
				atomic.AddUint64(&c.dropped, 1)
				utils.L().Error("session: append %s row: %v", stream, err)
				continue
			}
			atomic.AddUint64(&c.appended, 1)
		case <-flush.C:
			if err := w.Flush(); err != nil {
				utils.L().Error("session: flush %s log: %v", stream, err)
			}
		}
	}
}

// Stop transitions Active → Idle. Idempotent. No new appends are accepted
// after Stop returns, but rows already submitted still drain to the files
// before they are flushed and closed. The session's paths remain available
// for export until the next Start.
func (c *SessionController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.active = false
	for _, q := range c.queues {
		close(q)
	}
	c.queues = nil

	// The drain goroutines never touch the mutex, so waiting under it is
	// safe and keeps a concurrent Start from racing the drain.
	c.wg.Wait()

	utils.L().Info("logging session %s stopped (rows=%d dropped=%d)",
		c.token, atomic.LoadUint64(&c.appended), atomic.LoadUint64(&c.dropped))
}

// Active reports whether a session is currently running.
func (c *SessionController) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Token returns the current (or, after Stop, most recent) session token.
func (c *SessionController) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Paths returns the most recent session's log file paths in
// models.Streams() order, or nil if no session has been started.
func (c *SessionController) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.paths) == 0 {
		return nil
	}
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

// RowsWritten returns the number of rows appended in the current or most
// recent session.
func (c *SessionController) RowsWritten() uint64 {
	return atomic.LoadUint64(&c.appended)
}
