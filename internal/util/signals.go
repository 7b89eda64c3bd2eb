package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// SetupSignalHandler returns a context cancelled on the first SIGINT or
// SIGTERM, letting the run wind down: in-flight scans finish and browser
// sessions are released. A second signal exits immediately.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, shutdownSignals...)

	go func() {
		sig := <-sigCh
		slog.Info("shutdown requested, finishing in-flight scans", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("second shutdown signal, abandoning open sessions", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
