package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"motion-logger/models"
	"motion-logger/utils"
)

// MQTTSource bridges a broker to the ingest channels: one client with one
// subscription per stream. Payloads are JSON {"x":..,"y":..,"z":..}; each
// message is fanned to its stream's channel with a non-blocking send, so a
// slow consumer drops messages instead of stalling the MQTT callback.
type MQTTSource struct {
	cfg    utils.MQTTConfig
	client mqtt.Client

	AccelOut chan *models.Axes
	GyroOut  chan *models.Axes

	produced uint64
	dropped  uint64
}

func NewMQTTSource(cfg utils.MQTTConfig, channelBuffer int) *MQTTSource {
	if channelBuffer <= 0 {
		channelBuffer = 64
	}
	return &MQTTSource{
		cfg:      cfg,
		AccelOut: make(chan *models.Axes, channelBuffer),
		GyroOut:  make(chan *models.Axes, channelBuffer),
	}
}

// Start connects to the broker and subscribes both stream topics. The
// channels are closed after the context is cancelled and the client has
// disconnected, so no callback can fire into a closed channel.
func (s *MQTTSource) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetUsername(s.cfg.Username).
		SetPassword(s.cfg.Password).
		SetAutoReconnect(true).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			utils.L().Info("mqtt source connected to %s", s.cfg.Broker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			utils.L().Warn("mqtt source connection lost: %v", err)
		})

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker %s: %w", s.cfg.Broker, token.Error())
	}

	if err := s.subscribe(s.cfg.AccelTopic, s.AccelOut); err != nil {
		s.client.Disconnect(250)
		return fmt.Errorf("subscribe accelerometer topic: %w", err)
	}
	if err := s.subscribe(s.cfg.GyroTopic, s.GyroOut); err != nil {
		s.client.Disconnect(250)
		return fmt.Errorf("subscribe gyroscope topic: %w", err)
	}

	utils.L().Info("mqtt source subscribed (accel=%s, gyro=%s)",
		s.cfg.AccelTopic, s.cfg.GyroTopic)

	go func() {
		<-ctx.Done()
		s.client.Disconnect(250)
		close(s.AccelOut)
		close(s.GyroOut)
		utils.L().Info("mqtt source stopped (produced=%d, dropped=%d)",
			atomic.LoadUint64(&s.produced), atomic.LoadUint64(&s.dropped))
	}()

	return nil
}

func (s *MQTTSource) subscribe(topic string, out chan<- *models.Axes) error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var a models.Axes
		if err := json.Unmarshal(msg.Payload(), &a); err != nil {
			utils.L().Warn("mqtt source: bad payload on %s: %v", msg.Topic(), err)
			return
		}
		select {
		case out <- &a:
			atomic.AddUint64(&s.produced, 1)
		default:
			atomic.AddUint64(&s.dropped, 1)
		}
	}

	token := s.client.Subscribe(topic, 1, handler)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (s *MQTTSource) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&s.produced), atomic.LoadUint64(&s.dropped)
}
