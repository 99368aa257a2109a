package controller

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"motion-logger/models"
	"motion-logger/services/window"
)

// newTestSensors returns a sensors controller whose channels the test feeds
// directly, standing in for the reader goroutines.
func newTestSensors() (*SensorsController, chan *models.Axes, chan *models.Axes) {
	accel := make(chan *models.Axes, 16)
	gyro := make(chan *models.Axes, 16)
	return &SensorsController{AccelCh: accel, GyroCh: gyro}, accel, gyro
}

func TestDispatcherFillsWindowsInOrder(t *testing.T) {
	windows := window.NewStore(10)
	session := NewSessionController(t.TempDir())
	dc := NewDispatcherController(windows, session)

	sensors, accel, gyro := newTestSensors()
	dc.Start(context.Background(), sensors)

	for i := 1; i <= 3; i++ {
		accel <- &models.Axes{X: float64(i), Y: float64(i), Z: float64(i)}
	}
	close(accel)
	close(gyro)
	dc.Wait()

	got := windows.Read(models.StreamAccelerometer)
	if len(got) != 3 {
		t.Fatalf("window length = %d, want 3", len(got))
	}
	for i, s := range got {
		if s.X != float64(i+1) {
			t.Fatalf("window[%d].X = %v, want %v", i, s.X, i+1)
		}
		if s.TimestampMs <= 0 {
			t.Fatalf("window[%d] has no arrival timestamp", i)
		}
	}
	if dc.Processed(models.StreamAccelerometer) != 3 {
		t.Fatalf("processed = %d, want 3", dc.Processed(models.StreamAccelerometer))
	}
}

func TestDispatcherAppendsToActiveSession(t *testing.T) {
	windows := window.NewStore(10)
	session := NewSessionController(t.TempDir())
	if _, err := session.Start(); err != nil {
		t.Fatalf("start session: %v", err)
	}

	dc := NewDispatcherController(windows, session)
	sensors, accel, gyro := newTestSensors()
	dc.Start(context.Background(), sensors)

	accel <- &models.Axes{X: 1.25, Y: -4, Z: 0}
	gyro <- &models.Axes{X: 0.5, Y: 0.5, Z: 0.5}
	close(accel)
	close(gyro)
	dc.Wait()
	session.Stop()

	acc := readLog(t, session.Paths()[0])
	if len(acc) != 2 || !strings.HasSuffix(acc[1], ",1.25,-4,0") {
		t.Fatalf("accelerometer log = %v, want one row ending in ,1.25,-4,0", acc)
	}
	gy := readLog(t, session.Paths()[1])
	if len(gy) != 2 || !strings.HasSuffix(gy[1], ",0.5,0.5,0.5") {
		t.Fatalf("gyroscope log = %v, want one row ending in ,0.5,0.5,0.5", gy)
	}
}

func TestDispatcherIdleSessionStillUpdatesWindow(t *testing.T) {
	windows := window.NewStore(10)
	session := NewSessionController(t.TempDir())
	dc := NewDispatcherController(windows, session)

	sensors, accel, gyro := newTestSensors()
	dc.Start(context.Background(), sensors)

	accel <- &models.Axes{X: 7}
	close(accel)
	close(gyro)
	dc.Wait()

	if len(windows.Read(models.StreamAccelerometer)) != 1 {
		t.Fatal("window not updated while session idle")
	}
	if session.Paths() != nil {
		t.Fatal("idle session published paths")
	}
}

func TestDispatcherPassesRawValuesThrough(t *testing.T) {
	windows := window.NewStore(4)
	session := NewSessionController(t.TempDir())
	dc := NewDispatcherController(windows, session)

	sensors, accel, gyro := newTestSensors()
	dc.Start(context.Background(), sensors)

	accel <- &models.Axes{X: math.NaN(), Y: 2, Z: 3}
	close(accel)
	close(gyro)
	dc.Wait()

	raw := windows.Read(models.StreamAccelerometer)
	if !math.IsNaN(raw[0].X) {
		t.Fatal("dispatcher sanitized a raw sample; sanitization belongs to the read path")
	}
	norm := windows.Normalized(models.StreamAccelerometer)
	if norm.X[3] != 0 || norm.Y[3] != 2 {
		t.Fatalf("normalized tail = (%v, %v), want (0, 2)", norm.X[3], norm.Y[3])
	}
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	windows := window.NewStore(4)
	session := NewSessionController(t.TempDir())
	dc := NewDispatcherController(windows, session)

	ctx, cancel := context.WithCancel(context.Background())
	sensors, _, _ := newTestSensors()
	dc.Start(ctx, sensors)

	cancel()

	done := make(chan struct{})
	go func() {
		dc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop on context cancel")
	}
}
