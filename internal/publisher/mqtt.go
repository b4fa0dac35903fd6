package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/simbev/internal/config"
	"github.com/jgoulah/simbev/pkg/models"
)

// Publisher sends stored series buckets to an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the broker configured in mqttCfg
func New(mqttCfg config.MQTTConfig) (*Publisher, error) {
	if !mqttCfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if mqttCfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
	opts.SetClientID("simbev")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if mqttCfg.Username != "" {
		opts.SetUsername(mqttCfg.Username)
	}
	if mqttCfg.Password != "" {
		opts.SetPassword(mqttCfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		client.Disconnect(0)
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", mqttCfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
	}

	return &Publisher{
		client:      client,
		topicPrefix: mqttCfg.GetTopicPrefix(),
	}, nil
}

// Payload is the JSON message published for one bucket
type Payload struct {
	RunID    string  `json:"run_id"`
	Region   string  `json:"region"`
	Start    string  `json:"start"`
	Work     float64 `json:"work"`
	Business float64 `json:"business"`
	School   float64 `json:"school"`
	Shopping float64 `json:"shopping"`
	Private  float64 `json:"private"`
	Leisure  float64 `json:"leisure"`
	Home     float64 `json:"home"`
}

// NewPayload builds the message for a bucket
func NewPayload(b models.Bucket) Payload {
	v := b.Values
	return Payload{
		RunID:    b.RunID,
		Region:   b.Region,
		Start:    b.Start.Format(time.RFC3339),
		Work:     v[0],
		Business: v[1],
		School:   v[2],
		Shopping: v[3],
		Private:  v[4],
		Leisure:  v[5],
		Home:     v[6],
	}
}

// Topic returns the topic a region's buckets are published to
func Topic(prefix, region string) string {
	return fmt.Sprintf("%s/%s/timeseries", prefix, region)
}

// Publish sends one bucket at QoS 1 and waits for the broker to acknowledge
func (p *Publisher) Publish(b models.Bucket) error {
	body, err := json.Marshal(NewPayload(b))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(Topic(p.topicPrefix, b.Region), 1, false, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publish timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
