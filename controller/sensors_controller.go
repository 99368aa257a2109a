package controller

import (
	"context"
	"fmt"

	"motion-logger/models"
	"motion-logger/services/ingest"
	"motion-logger/utils"
)

// SensorsController owns the lifecycle of the sample sources and exposes
// one ordered channel per stream for the dispatcher to consume. Depending
// on the configured mode the channels are fed by the synthetic readers or
// by a single MQTT client.
type SensorsController struct {
	accel *ingest.AccelReader
	gyro  *ingest.GyroReader
	mqtt  *ingest.MQTTSource

	AccelCh chan *models.Axes
	GyroCh  chan *models.Axes
}

// NewSensorsController wires the sources for the configured mode.
func NewSensorsController(cfg *utils.Config) (*SensorsController, error) {
	sc := &SensorsController{}

	switch cfg.Source.Mode {
	case "simulate":
		sc.accel = ingest.NewAccelReader(cfg.Streams.Accelerometer)
		sc.gyro = ingest.NewGyroReader(cfg.Streams.Gyroscope)
		sc.AccelCh = sc.accel.Out
		sc.GyroCh = sc.gyro.Out
	case "mqtt":
		sc.mqtt = ingest.NewMQTTSource(cfg.Source.MQTT, cfg.Streams.Accelerometer.ChannelBuffer)
		sc.AccelCh = sc.mqtt.AccelOut
		sc.GyroCh = sc.mqtt.GyroOut
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Source.Mode)
	}

	return sc, nil
}

// Start launches the configured sources. For the MQTT mode this blocks
// until the broker connection and subscriptions are established.
func (sc *SensorsController) Start(ctx context.Context) error {
	if sc.mqtt != nil {
		if err := sc.mqtt.Start(ctx); err != nil {
			return err
		}
	}
	if sc.accel != nil {
		sc.accel.Start(ctx)
	}
	if sc.gyro != nil {
		sc.gyro.Start(ctx)
	}
	utils.L().Info("sensors controller: sources launched")
	return nil
}

// LogStats prints current produce/drop counters for each active source.
func (sc *SensorsController) LogStats() {
	if sc.accel != nil {
		p, d := sc.accel.Stats()
		utils.L().Info("  accelerometer produced=%d  dropped=%d", p, d)
	}
	if sc.gyro != nil {
		p, d := sc.gyro.Stats()
		utils.L().Info("  gyroscope     produced=%d  dropped=%d", p, d)
	}
	if sc.mqtt != nil {
		p, d := sc.mqtt.Stats()
		utils.L().Info("  mqtt          produced=%d  dropped=%d", p, d)
	}
}
