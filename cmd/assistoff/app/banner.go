package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gosuri/uitable"

	"assistoff.io/assistoff/cmd/assistoff/app/options"
)

func printBanner(w io.Writer, opts *options.AssistOffOptions) {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Separator = "  "

	table.AddRow("Status file:", filepath.Join(opts.WatchOptions.Dir, opts.WatchOptions.Filename))
	table.AddRow("Toggle key:", fmt.Sprintf("0x%02X (hold %s)", opts.KeyboardOptions.ScanCode, opts.KeyboardOptions.Hold))
	if opts.KeyboardOptions.DryRun {
		table.AddRow("Mode:", "dry run")
	}
	table.AddRow("Metrics:", valueOr(opts.HttpOptions.Addr, "disabled"))
	table.AddRow("MQTT:", valueOr(opts.MqttOptions.Broker, "disabled"))

	fmt.Fprintln(w, table)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press 'q' to quit the program.")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
