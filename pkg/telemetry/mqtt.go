package telemetry

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	pkgerrors "github.com/pkg/errors"
)

// MQTT publishes events to an MQTT broker.
type MQTT struct {
	client paho.Client
	topic  string
}

// NewMQTT connects to the broker (e.g. "tcp://192.168.1.200:1883") and keeps
// reconnecting in the background if the connection drops.
func NewMQTT(broker string) (*MQTT, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("ventd").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, pkgerrors.New("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to broker")
	}

	return &MQTT{
		client: client,
		topic:  Topic,
	}, nil
}

// Publish sends one event at QoS 0, not retained.
func (p *MQTT) Publish(e Event) error {
	payload, err := FormatPayload(e)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to format payload")
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return pkgerrors.New("publish timeout")
	}
	if err := token.Error(); err != nil {
		return pkgerrors.Wrap(err, "failed to publish")
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTT) Close() error {
	p.client.Disconnect(250)
	return nil
}
