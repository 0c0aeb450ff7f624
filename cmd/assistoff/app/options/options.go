package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"assistoff.io/assistoff/internal/assistoff"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

// EnvPrefix prefixes the environment variables read by Load, e.g.
// ASSISTOFF_KEYBOARD_SCAN_CODE.
const EnvPrefix = "ASSISTOFF"

type AssistOffOptions struct {
	ConfigFile string `json:"-" mapstructure:"-"`

	WatchOptions    *options.WatchOptions    `json:"watch" mapstructure:"watch"`
	KeyboardOptions *options.KeyboardOptions `json:"keyboard" mapstructure:"keyboard"`
	HttpOptions     *options.HttpOptions     `json:"http" mapstructure:"http"`
	MqttOptions     *options.MqttOptions     `json:"mqtt" mapstructure:"mqtt"`
	Log             *log.Options             `json:"log" mapstructure:"log"`
}

func NewAssistOffOptions() *AssistOffOptions {
	return &AssistOffOptions{
		WatchOptions:    options.NewWatchOptions(),
		KeyboardOptions: options.NewKeyboardOptions(),
		HttpOptions:     options.NewHttpOptions(),
		MqttOptions:     options.NewMqttOptions(),
		Log:             log.NewOptions(),
	}
}

func (o *AssistOffOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fss.FlagSet("global").StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a YAML, JSON or TOML configuration file.")
	o.WatchOptions.AddFlags(fss.FlagSet("watch"))
	o.KeyboardOptions.AddFlags(fss.FlagSet("keyboard"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

// Load merges the config file and ASSISTOFF_* environment variables into o.
// Flags set on the command line take precedence over both.
func (o *AssistOffOptions) Load(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", o.ConfigFile, err)
		}
	}

	if err := v.Unmarshal(o); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}

// Complete applies the positional directory argument, if any.
func (o *AssistOffOptions) Complete(args []string) error {
	if len(args) > 0 && args[0] != "" {
		o.WatchOptions.Dir = args[0]
	}
	return nil
}

func (o *AssistOffOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.WatchOptions.Validate()...)
	errs = append(errs, o.KeyboardOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *AssistOffOptions) Config() (*assistoff.Config, error) {
	return &assistoff.Config{
		WatchOptions:    o.WatchOptions,
		KeyboardOptions: o.KeyboardOptions,
		HttpOptions:     o.HttpOptions,
		MqttOptions:     o.MqttOptions,
	}, nil
}
