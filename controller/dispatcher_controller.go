package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"motion-logger/models"
	"motion-logger/services/window"
	"motion-logger/utils"
)

// DispatcherController bridges the sample sources to the window store and,
// when a logging session is active, to the session controller.
//
// One consumer goroutine per stream reads that stream's ordered channel, so
// arrival order is preserved end to end: window updates and log appends for
// a stream happen in exactly the order the source emitted. Teardown cancels
// the consumers; it deliberately leaves any active session untouched — the
// process entrypoint decides whether to stop it.
type DispatcherController struct {
	windows *window.Store
	session *SessionController

	wg             sync.WaitGroup
	accelProcessed uint64
	gyroProcessed  uint64
}

func NewDispatcherController(windows *window.Store, session *SessionController) *DispatcherController {
	return &DispatcherController{
		windows: windows,
		session: session,
	}
}

// Start launches one consumer per stream. The consumers exit when ctx is
// cancelled or their source channel closes.
func (dc *DispatcherController) Start(ctx context.Context, sc *SensorsController) {
	dc.wg.Add(2)
	go dc.consume(ctx, models.StreamAccelerometer, sc.AccelCh, &dc.accelProcessed)
	go dc.consume(ctx, models.StreamGyroscope, sc.GyroCh, &dc.gyroProcessed)
	utils.L().Info("dispatcher started")
}

func (dc *DispatcherController) consume(ctx context.Context, stream models.Stream, ch <-chan *models.Axes, processed *uint64) {
	defer dc.wg.Done()

	for {
		select {
		case <-ctx.Done():
			utils.L().Info("dispatcher: %s consumer stopped (processed=%d)",
				stream, atomic.LoadUint64(processed))
			return
		case a, ok := <-ch:
			if !ok {
				utils.L().Info("dispatcher: %s source closed (processed=%d)",
					stream, atomic.LoadUint64(processed))
				return
			}
			s := &models.Sample{
				TimestampMs: utils.NowMillis(),
				X:           a.X,
				Y:           a.Y,
				Z:           a.Z,
			}
			dc.windows.Push(stream, s)
			dc.session.Append(stream, s)
			atomic.AddUint64(processed, 1)
		}
	}
}

// Wait blocks until both consumers have exited.
func (dc *DispatcherController) Wait() {
	dc.wg.Wait()
}

// Processed returns how many samples have been dispatched for a stream.
func (dc *DispatcherController) Processed(stream models.Stream) uint64 {
	switch stream {
	case models.StreamAccelerometer:
		return atomic.LoadUint64(&dc.accelProcessed)
	case models.StreamGyroscope:
		return atomic.LoadUint64(&dc.gyroProcessed)
	}
	return 0
}
