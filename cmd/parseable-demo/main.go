// Command parseable-demo runs sample Temporal workflows with telemetry
// shipped to Parseable.
//
//	parseable-demo worker --config parseable.yaml
//	parseable-demo client --config parseable.yaml
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
