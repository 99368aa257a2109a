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

// glitchRate is the probability that a simulated axis value comes out
// non-finite, mimicking the occasional NaN real sensor drivers deliver.
const glitchRate = 0.002

// AccelReader is the synthetic accelerometer source used when no broker is
// configured. It emits one 3-axis reading per update interval on Out.
type AccelReader struct {
	cfg      utils.StreamConfig
	Out      chan *models.Axes
	produced uint64
	dropped  uint64
}

func NewAccelReader(cfg utils.StreamConfig) *AccelReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 64
	}
	return &AccelReader{
		cfg: cfg,
		Out: make(chan *models.Axes, buf),
	}
}

func (r *AccelReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("accelerometer reader started (interval=%dms, buffer=%d)",
		r.cfg.UpdateIntervalMs, cap(r.Out))
}

func (r *AccelReader) run(ctx context.Context) {
	defer close(r.Out)

	ticker := time.NewTicker(time.Duration(r.cfg.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	var step float64
	for {
		select {
		case <-ctx.Done():
			utils.L().Info("accelerometer reader stopped (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			a := r.read(step)
			step += 0.05

			select {
			case r.Out <- a:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *AccelReader) read(step float64) *models.Axes {
	return &models.Axes{
		X: glitch(0.3*math.Sin(step) + rand.Float64()*0.05),
		Y: glitch(0.2*math.Cos(step) + rand.Float64()*0.05),
		Z: glitch(9.81 + rand.Float64()*0.1),
	}
}

func (r *AccelReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}

// glitch occasionally replaces v with NaN so the display path's sanitizer
// sees realistic input.
func glitch(v float64) float64 {
	if rand.Float64() < glitchRate {
		return math.NaN()
	}
	return v
}
