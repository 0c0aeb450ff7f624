package options

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*WatchOptions)(nil)

// WatchOptions controls which directory and file are observed.
type WatchOptions struct {
	// Dir is the journal directory holding the status file. Usually supplied
	// as the positional argument.
	Dir string `json:"dir" mapstructure:"dir"`

	// Filename is the exact base name the pipeline reacts to.
	Filename string `json:"filename" mapstructure:"filename"`

	// Pattern limits the notifications forwarded by the watcher.
	Pattern string `json:"pattern" mapstructure:"pattern"`

	// Debounce coalesces bursts of events on one file. Zero disables it.
	Debounce time.Duration `json:"debounce" mapstructure:"debounce"`

	// Buffer is the capacity of the notification channel.
	Buffer int `json:"buffer" mapstructure:"buffer"`
}

// NewWatchOptions creates a WatchOptions object with default parameters.
func NewWatchOptions() *WatchOptions {
	return &WatchOptions{
		Filename: "Status.json",
		Pattern:  "*.json",
		Debounce: 0,
		Buffer:   16,
	}
}

// Validate does not require Dir: the command reports a missing directory as a
// usage error on its own.
func (o *WatchOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Filename == "" {
		errs = append(errs, fmt.Errorf("--watch.filename must not be empty"))
	}
	if _, err := filepath.Match(o.Pattern, o.Filename); err != nil {
		errs = append(errs, fmt.Errorf("invalid --watch.pattern %q: %w", o.Pattern, err))
	} else if ok, _ := filepath.Match(o.Pattern, o.Filename); !ok {
		errs = append(errs, fmt.Errorf("--watch.pattern %q never matches --watch.filename %q", o.Pattern, o.Filename))
	}
	if o.Debounce < 0 {
		errs = append(errs, fmt.Errorf("--watch.debounce must not be negative"))
	}
	if o.Buffer < 1 {
		errs = append(errs, fmt.Errorf("--watch.buffer must be at least 1"))
	}

	return errs
}

// AddFlags adds flags for WatchOptions to the specified FlagSet.
func (o *WatchOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Dir, "watch.dir", o.Dir, "Directory holding the status file. The positional argument takes precedence.")
	fs.StringVar(&o.Filename, "watch.filename", o.Filename, "Name of the status file inside the watched directory.")
	fs.StringVar(&o.Pattern, "watch.pattern", o.Pattern, "Glob restricting which file events are forwarded.")
	fs.DurationVar(&o.Debounce, "watch.debounce", o.Debounce, "Coalesce bursts of events on the same file within this window (0 disables).")
	fs.IntVar(&o.Buffer, "watch.buffer", o.Buffer, "Capacity of the notification queue.")
}
