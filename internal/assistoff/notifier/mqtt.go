// Package notifier publishes pipeline results to an MQTT broker.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/log"
	pkgmqtt "assistoff.io/assistoff/pkg/mqtt"
	mqtttopic "assistoff.io/assistoff/pkg/mqtt/topic"
	"assistoff.io/assistoff/pkg/options"
)

const (
	qosStatus     = 0
	qosCorrection = 1
)

// MQTTNotifier implements core.Notifier on top of pkg/mqtt.
type MQTTNotifier struct {
	client   pkgmqtt.Client
	topics   *mqtttopic.TopicBuilder
	clientID string
	timeout  time.Duration
}

var (
	_ core.Notifier         = (*MQTTNotifier)(nil)
	_ core.ReadinessChecker = (*MQTTNotifier)(nil)
)

// NewMQTTNotifier connects to the configured broker. The connection is
// established in the background; publishes fail fast until it is up.
func NewMQTTNotifier(ctx context.Context, opts *options.MqttOptions) (*MQTTNotifier, error) {
	client, err := pkgmqtt.NewClient(opts.ToClientConfig())
	if err != nil {
		return nil, err
	}

	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start mqtt client: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an already started client.
func NewWithClient(client pkgmqtt.Client, opts *options.MqttOptions) *MQTTNotifier {
	return &MQTTNotifier{
		client:   client,
		topics:   mqtttopic.NewTopicBuilder(opts.TopicRoot),
		clientID: opts.ClientID,
		timeout:  opts.PublishTimeout,
	}
}

func (n *MQTTNotifier) NotifyStatus(ctx context.Context, report core.StatusReport) error {
	return n.publish(ctx, n.topics.Status(n.clientID), qosStatus, true, report)
}

func (n *MQTTNotifier) NotifyCorrection(ctx context.Context, report core.CorrectionReport) error {
	return n.publish(ctx, n.topics.Correction(n.clientID), qosCorrection, false, report)
}

// AwaitReady waits for the broker connection.
func (n *MQTTNotifier) AwaitReady(ctx context.Context) error {
	if err := n.client.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("mqtt broker not connected: %w", err)
	}
	return nil
}

func (n *MQTTNotifier) Close(ctx context.Context) {
	n.client.Disconnect(ctx)
}

func (n *MQTTNotifier) publish(ctx context.Context, topic string, qos int, retain bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.client.Publish(ctx, topic, qos, retain, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	log.Debug("Published", "topic", topic, "bytes", len(payload))
	return nil
}
