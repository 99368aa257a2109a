package models

// Stream identifies one of the two independent sample sources.
type Stream string

const (
	StreamAccelerometer Stream = "accelerometer"
	StreamGyroscope     Stream = "gyroscope"
)

// Streams returns every known stream in a stable order
// (accelerometer first, then gyroscope).
func Streams() []Stream {
	return []Stream{StreamAccelerometer, StreamGyroscope}
}

// Valid reports whether s names a known stream.
func (s Stream) Valid() bool {
	return s == StreamAccelerometer || s == StreamGyroscope
}

func (s Stream) String() string { return string(s) }
