package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"assistoff.io/assistoff/pkg/mqtt"
)

var _ IOptions = (*MqttOptions)(nil)

// MqttOptions configures the optional telemetry publisher.
type MqttOptions struct {
	// Broker is the broker URL. Empty disables publishing.
	Broker   string `json:"broker" mapstructure:"broker"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	ClientID string `json:"client-id" mapstructure:"client-id"`

	// Client behavior
	KeepAlive      time.Duration `json:"keep-alive" mapstructure:"keep-alive"`
	ConnectTimeout time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	PublishTimeout time.Duration `json:"publish-timeout" mapstructure:"publish-timeout"`

	// InsecureSkipVerify controls whether a client verifies the server's certificate chain and host name.
	// This should be used only for testing.
	InsecureSkipVerify bool `json:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`

	// TopicRoot prefixes every published topic: {TopicRoot}/{kind}/{ClientID}.
	TopicRoot string `json:"topic-root" mapstructure:"topic-root"`
}

// NewMqttOptions creates a new MqttOptions with default values.
func NewMqttOptions() *MqttOptions {
	return &MqttOptions{
		ClientID:       "assistoff",
		KeepAlive:      60 * time.Second,
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 2 * time.Second,
		TopicRoot:      "assistoff/v1",
	}
}

// Enabled reports whether a broker was configured.
func (o *MqttOptions) Enabled() bool {
	return o != nil && o.Broker != ""
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *MqttOptions) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	errors := []error{}

	u, err := url.Parse(o.Broker)
	if err != nil {
		errors = append(errors, fmt.Errorf("invalid --mqtt.broker: %w", err))
	} else if u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Errorf("--mqtt.broker %q must look like tcp://host:1883", o.Broker))
	}
	if o.ClientID == "" {
		errors = append(errors, fmt.Errorf("--mqtt.client-id must not be empty"))
	}
	if o.TopicRoot == "" {
		errors = append(errors, fmt.Errorf("--mqtt.topic-root must not be empty"))
	}
	if o.PublishTimeout <= 0 {
		errors = append(errors, fmt.Errorf("--mqtt.publish-timeout must be positive"))
	}

	return errors
}

// AddFlags adds flags for MqttOptions to the specified FlagSet.
func (o *MqttOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Broker, "mqtt.broker", o.Broker, "URL of an MQTT broker receiving status and correction events. Empty disables publishing.")
	fs.StringVar(&o.Username, "mqtt.username", o.Username, "The username for MQTT authentication.")
	fs.StringVar(&o.Password, "mqtt.password", o.Password, "The password for MQTT authentication.")
	fs.StringVar(&o.ClientID, "mqtt.client-id", o.ClientID, "Client ID, also used as the last topic segment.")

	fs.DurationVar(&o.KeepAlive, "mqtt.keep-alive", o.KeepAlive, "MQTT Keep Alive interval.")
	fs.DurationVar(&o.ConnectTimeout, "mqtt.connect-timeout", o.ConnectTimeout, "Timeout for establishing MQTT connection.")
	fs.DurationVar(&o.PublishTimeout, "mqtt.publish-timeout", o.PublishTimeout, "Upper bound for a single publish.")
	fs.BoolVar(&o.InsecureSkipVerify, "mqtt.insecure-skip-verify", o.InsecureSkipVerify, "If true, skips the TLS certificate verification.")

	fs.StringVar(&o.TopicRoot, "mqtt.topic-root", o.TopicRoot, "Topic prefix for published events.")
}

func (o *MqttOptions) ToClientConfig() *mqtt.ClientConfig {
	return &mqtt.ClientConfig{
		BrokerURL:          o.Broker,
		Username:           o.Username,
		Password:           o.Password,
		ClientID:           o.ClientID,
		KeepAlive:          uint16(o.KeepAlive.Seconds()),
		ConnectTimeout:     o.ConnectTimeout,
		CleanStart:         true,
		InsecureSkipVerify: o.InsecureSkipVerify,
	}
}
