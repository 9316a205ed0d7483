// Command offlineq inspects and edits queues persisted by pkg/queue.
//
// The storage backend is chosen with OFFLINEQ_STORAGE (or --storage) and
// configured through the OFFLINEQ_* variables of the matching package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/offlineq/pkg/config"
	"github.com/dmitrymomot/offlineq/pkg/logger"
)

func main() {
	var settings Settings
	config.MustLoad(&settings)

	log := logger.New(
		logger.WithEnvironment(settings.Env, "offlineq"),
		logger.WithOutput(os.Stderr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(settings, openBackend, log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
