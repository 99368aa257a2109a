package ingest

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"motion-logger/models"
	"motion-logger/utils"
)

// GyroReader is the synthetic gyroscope source used when no broker is
// configured. Same shape as AccelReader with rotation-rate magnitudes.
type GyroReader struct {
	cfg      utils.StreamConfig
	Out      chan *models.Axes
	produced uint64
	dropped  uint64
}

func NewGyroReader(cfg utils.StreamConfig) *GyroReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 64
	}
	return &GyroReader{
		cfg: cfg,
		Out: make(chan *models.Axes, buf),
	}
}

func (r *GyroReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("gyroscope reader started     (interval=%dms, buffer=%d)",
		r.cfg.UpdateIntervalMs, cap(r.Out))
}

func (r *GyroReader) run(ctx context.Context) {
	defer close(r.Out)

	ticker := time.NewTicker(time.Duration(r.cfg.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	var step float64
	for {
		select {
		case <-ctx.Done():
			utils.L().Info("gyroscope reader stopped     (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			g := r.read(step)
			step += 0.05

			select {
			case r.Out <- g:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *GyroReader) read(step float64) *models.Axes {
	return &models.Axes{
		X: glitch(0.02*math.Sin(step*2) + rand.Float64()*0.005),
		Y: glitch(0.02*math.Cos(step*2) + rand.Float64()*0.005),
		Z: glitch(0.005 + rand.Float64()*0.002),
	}
}

func (r *GyroReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
