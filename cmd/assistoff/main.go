package main

import (
	"errors"
	"fmt"
	"os"

	"k8s.io/apiserver/pkg/server"

	"assistoff.io/assistoff/cmd/assistoff/app"
)

func main() {
	ctx := server.SetupSignalContext()
	if err := app.NewAssistOffCommand(ctx).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, app.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
