package assistoff

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/internal/assistoff/hal"
	"assistoff.io/assistoff/internal/assistoff/notifier"
	"assistoff.io/assistoff/internal/assistoff/watcher"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

type Config struct {
	WatchOptions    *options.WatchOptions
	KeyboardOptions *options.KeyboardOptions
	HttpOptions     *options.HttpOptions
	MqttOptions     *options.MqttOptions
}

// NewAgent builds an Agent from validated options. The MQTT connection, if
// configured, is started in the background with ctx.
func (cfg *Config) NewAgent(ctx context.Context) (*Agent, error) {
	metrics := NewMetrics(prometheus.NewRegistry())

	kb, err := hal.NewKeyboard(cfg.KeyboardOptions)
	if err != nil {
		return nil, err
	}

	source := watcher.New(cfg.WatchOptions.Dir, watcher.Options{
		Pattern:  cfg.WatchOptions.Pattern,
		Debounce: cfg.WatchOptions.Debounce,
		Buffer:   cfg.WatchOptions.Buffer,
		Logger:   log.Logr().WithName("watcher"),
		OnError: func(error) {
			metrics.WatcherErrors.Inc()
		},
	})

	agentOpts := []Option{
		WithMetrics(metrics),
		WithKeyboard(kb),
		WithLogger(log.WithName("agent")),
	}

	if cfg.HttpOptions != nil && cfg.HttpOptions.Enabled() {
		agentOpts = append(agentOpts, WithHTTPServer(cfg.HttpOptions))
	}

	if cfg.MqttOptions != nil && cfg.MqttOptions.Enabled() {
		n, err := notifier.NewMQTTNotifier(ctx, cfg.MqttOptions)
		if err != nil {
			_ = kb.Close()
			return nil, fmt.Errorf("failed to init mqtt notifier: %w", err)
		}
		agentOpts = append(agentOpts, WithNotifier(n))
	}

	trigger := core.NewTrigger(kb, cfg.KeyboardOptions.ScanCode, cfg.KeyboardOptions.Hold)

	return NewAgent(cfg.WatchOptions.Filename, source, trigger, agentOpts...), nil
}
