package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"peopledetect/internal/config"
	"peopledetect/internal/logger"
	"peopledetect/internal/models"
	"peopledetect/internal/services/gate"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// StatusMessage is the retained payload on the status topic.
type StatusMessage struct {
	Status    gate.Status `json:"status"`
	Message   string      `json:"message"`
	Stats     gate.Stats  `json:"stats"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher sends journal records and gate status to an MQTT broker.
type Publisher struct {
	client paho.Client
	topic  string
	logger *logger.Logger

	mu     sync.Mutex
	errors uint64
}

// NewPublisher connects to cfg.MQTTBroker. Publishing is best effort; the
// client reconnects on its own after the initial connection.
func NewPublisher(cfg *config.Config, logger *logger.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.MQTTBroker))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetWill(StatusTopic(cfg.MQTTTopic), `{"status":"offline"}`, 1, true)

	opts.OnConnect = func(c paho.Client) {
		logger.Info("MQTT connected to %s", cfg.MQTTBroker)
	}
	opts.OnConnectionLost = func(c paho.Client, err error) {
		logger.Warning("MQTT connection lost: %v", err)
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connection failed: %w", err)
	}

	return &Publisher{client: client, topic: cfg.MQTTTopic, logger: logger}, nil
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

func ActuationsTopic(base string) string { return base + "/actuations" }

func StatusTopic(base string) string { return base + "/status" }

// ActuationPayload is the JSON body published for a journal record.
func ActuationPayload(a models.Actuation) ([]byte, error) {
	return json.Marshal(a)
}

// StatusPayload is the JSON body published for a gate status change.
func StatusPayload(status gate.Status, stats gate.Stats, at time.Time) ([]byte, error) {
	return json.Marshal(StatusMessage{
		Status:    status,
		Message:   status.Message(),
		Stats:     stats,
		Timestamp: at,
	})
}

func (p *Publisher) PublishActuation(a models.Actuation) error {
	payload, err := ActuationPayload(a)
	if err != nil {
		return fmt.Errorf("failed to marshal actuation: %w", err)
	}
	return p.publish(ActuationsTopic(p.topic), 1, false, payload)
}

func (p *Publisher) PublishStatus(status gate.Status, stats gate.Stats) error {
	payload, err := StatusPayload(status, stats, time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return p.publish(StatusTopic(p.topic), 1, true, payload)
}

func (p *Publisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.countError()
		return fmt.Errorf("mqtt not connected")
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		p.countError()
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		p.countError()
		return fmt.Errorf("publish failed: %w", err)
	}

	p.logger.Debug("Published %d bytes to %s", len(payload), topic)
	return nil
}

func (p *Publisher) countError() {
	p.mu.Lock()
	p.errors++
	p.mu.Unlock()
}

// Errors is the number of failed publishes.
func (p *Publisher) Errors() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors
}

func (p *Publisher) Close() {
	if n := p.Errors(); n > 0 {
		p.logger.Warning("MQTT publisher closing after %d failed publishes", n)
	}
	p.client.Disconnect(250)
}
