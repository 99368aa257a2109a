package window

import (
	"sync"

	"motion-logger/models"
)

// buffer holds the most recent samples for one stream, oldest first.
// Capacity is fixed; pushing beyond it evicts from the front. Samples are
// stored raw — sanitization is applied on read, not on write, so the log
// path can still see values verbatim.
type buffer struct {
	capacity int
	samples  []*models.Sample
}

func newBuffer(capacity int) *buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &buffer{
		capacity: capacity,
		samples:  make([]*models.Sample, 0, capacity),
	}
}

func (b *buffer) push(s *models.Sample) {
	if len(b.samples) == b.capacity {
		copy(b.samples, b.samples[1:])
		b.samples[len(b.samples)-1] = s
		return
	}
	b.samples = append(b.samples, s)
}

// Store keeps one bounded window per stream. Safe for concurrent use: the
// dispatcher goroutines push while the live view reads.
type Store struct {
	mu       sync.RWMutex
	capacity int
	windows  map[models.Stream]*buffer
}

// NewStore creates a store whose windows each hold at most capacity samples.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1
	}
	st := &Store{
		capacity: capacity,
		windows:  make(map[models.Stream]*buffer, 2),
	}
	for _, stream := range models.Streams() {
		st.windows[stream] = newBuffer(capacity)
	}
	return st
}

// Capacity returns the fixed per-stream window size N.
func (st *Store) Capacity() int { return st.capacity }

// Push appends a raw sample to the stream's window, evicting the oldest
// entry when the window is full. Unknown streams are ignored.
func (st *Store) Push(stream models.Stream, s *models.Sample) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if b, ok := st.windows[stream]; ok {
		b.push(s)
	}
}

// Read returns a copy of the stream's current window, oldest first.
// Length is between 0 and Capacity. Does not mutate the window.
func (st *Store) Read(stream models.Stream) []*models.Sample {
	st.mu.RLock()
	defer st.mu.RUnlock()
	b, ok := st.windows[stream]
	if !ok {
		return nil
	}
	out := make([]*models.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Normalized returns the stream's window as per-axis arrays forced to
// exactly Capacity elements: sanitized, oldest first, front-padded with
// zeros while the window is still filling. This is the sole contract the
// rendering layer depends on.
func (st *Store) Normalized(stream models.Stream) AxisBatch {
	samples := st.Read(stream)
	batch := AxisBatch{
		X: make([]float64, 0, len(samples)),
		Y: make([]float64, 0, len(samples)),
		Z: make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		batch.X = append(batch.X, s.X)
		batch.Y = append(batch.Y, s.Y)
		batch.Z = append(batch.Z, s.Z)
	}
	return Normalize(batch, st.capacity)
}
