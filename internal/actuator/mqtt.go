package actuator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrobox/internal/config"
	"agrobox/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultTopicPrefix = "agrobox"
	defaultClientID    = "agrobox-backend"
	connectTimeout     = 10 * time.Second
	publishTimeout     = 5 * time.Second
	relayQoS           = 1

	payloadOn  = "ON"
	payloadOff = "OFF"
)

var errPublishTimeout = errors.New("mqtt publish timed out")

// Topic is the command topic of one relay.
func Topic(prefix, name string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return prefix + "/" + name + "/set"
}

// MQTTDriver publishes retained ON/OFF commands so a relay board that
// reconnects picks up the last state.
type MQTTDriver struct {
	client mqtt.Client
	prefix string
	log    *logger.Logger
}

func NewMQTTDriver(cfg config.MQTTConfig, log *logger.Logger) (*MQTTDriver, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect mqtt %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, err)
	}
	return newMQTTDriver(c, cfg.TopicPrefix, log), nil
}

func newMQTTDriver(c mqtt.Client, prefix string, log *logger.Logger) *MQTTDriver {
	if log == nil {
		log = logger.Nop()
	}
	return &MQTTDriver{client: c, prefix: prefix, log: log}
}

func (d *MQTTDriver) Apply(ctx context.Context, name string, on bool) error {
	payload := payloadOff
	if on {
		payload = payloadOn
	}
	topic := Topic(d.prefix, name)

	tok := d.client.Publish(topic, relayQoS, true, payload)
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("%s: %w", topic, errPublishTimeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	d.log.Infow("actuator_applied", "actuator", name, "on", on, "topic", topic)
	return nil
}

func (d *MQTTDriver) Close() {
	d.client.Disconnect(250)
}
