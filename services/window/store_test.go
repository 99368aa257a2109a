package window

import (
	"math"
	"testing"

	"motion-logger/models"
)

func pushN(st *Store, stream models.Stream, from, to int) {
	for i := from; i <= to; i++ {
		st.Push(stream, &models.Sample{
			TimestampMs: int64(1000 + i),
			X:           float64(i),
			Y:           float64(i) * 10,
			Z:           float64(i) * 100,
		})
	}
}

func TestWindowBoundedAfterEveryPush(t *testing.T) {
	st := NewStore(10)
	for i := 1; i <= 25; i++ {
		pushN(st, models.StreamAccelerometer, i, i)
		if n := len(st.Read(models.StreamAccelerometer)); n > 10 {
			t.Fatalf("after %d pushes window length = %d, exceeds capacity", i, n)
		}
	}
}

func TestWindowKeepsLastNInArrivalOrder(t *testing.T) {
	st := NewStore(10)
	pushN(st, models.StreamAccelerometer, 1, 12)

	got := st.Read(models.StreamAccelerometer)
	if len(got) != 10 {
		t.Fatalf("window length = %d, want 10", len(got))
	}
	for i, s := range got {
		if want := float64(i + 3); s.X != want {
			t.Fatalf("window[%d].X = %v, want %v", i, s.X, want)
		}
	}
}

func TestWindowUnderCapacity(t *testing.T) {
	st := NewStore(10)
	pushN(st, models.StreamGyroscope, 1, 3)

	got := st.Read(models.StreamGyroscope)
	if len(got) != 3 {
		t.Fatalf("window length = %d, want 3", len(got))
	}
	if got[0].X != 1 || got[2].X != 3 {
		t.Fatalf("window order wrong: first=%v last=%v", got[0].X, got[2].X)
	}
}

func TestStreamsIndependent(t *testing.T) {
	st := NewStore(5)
	pushN(st, models.StreamAccelerometer, 1, 4)

	if n := len(st.Read(models.StreamGyroscope)); n != 0 {
		t.Fatalf("gyroscope window length = %d, want 0", n)
	}
}

func TestReadReturnsCopy(t *testing.T) {
	st := NewStore(5)
	pushN(st, models.StreamAccelerometer, 1, 2)

	got := st.Read(models.StreamAccelerometer)
	got[0] = nil

	again := st.Read(models.StreamAccelerometer)
	if again[0] == nil {
		t.Fatal("mutating the returned slice affected the window")
	}
}

func TestNormalizedPadsWhileFilling(t *testing.T) {
	st := NewStore(10)
	for _, v := range []float64{1, 2, 3} {
		st.Push(models.StreamAccelerometer, &models.Sample{X: v, Y: v, Z: v})
	}

	got := st.Normalized(models.StreamAccelerometer)
	want := []float64{0, 0, 0, 0, 0, 0, 0, 1, 2, 3}
	assertFloats(t, got.X, want)
	assertFloats(t, got.Y, want)
	assertFloats(t, got.Z, want)
}

func TestNormalizedFullWindow(t *testing.T) {
	st := NewStore(10)
	pushN(st, models.StreamAccelerometer, 1, 12)

	got := st.Normalized(models.StreamAccelerometer)
	want := []float64{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	assertFloats(t, got.X, want)
}

func TestNormalizedSanitizesRawValues(t *testing.T) {
	st := NewStore(4)
	st.Push(models.StreamGyroscope, &models.Sample{X: math.NaN(), Y: 1, Z: math.Inf(-1)})

	raw := st.Read(models.StreamGyroscope)
	if !math.IsNaN(raw[0].X) {
		t.Fatal("window must keep raw values; NaN was lost before read")
	}

	got := st.Normalized(models.StreamGyroscope)
	if got.X[3] != 0 || got.Y[3] != 1 || got.Z[3] != 0 {
		t.Fatalf("normalized tail = (%v, %v, %v), want (0, 1, 0)", got.X[3], got.Y[3], got.Z[3])
	}
}
