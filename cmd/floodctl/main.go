// Command floodctl runs the offline model lifecycle: generating a mock
// corpus, fitting the preprocessors and the forest, scoring a single row, and
// validating a model directory.
//
// Usage:
//
//	floodctl genmock --rows 2000 --out data/flood_data.csv
//	floodctl train --trees 100
//	floodctl predict --row observation.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flood-risk-service/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
