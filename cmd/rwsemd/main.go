// Command rwsemd is the IPC server: it owns one rwsem.Table, accepts yamux
// sessions, and dispatches every call from the one goroutine the table
// requires, the way a single consul server process owns one *consul.Server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/minix3/rwsemd/config"
	"github.com/minix3/rwsemd/ipc"
	"github.com/minix3/rwsemd/telemetry"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg := config.DefaultConfig()
	fs := flag.NewFlagSet("rwsemd", flag.ContinueOnError)
	cfg.ServerFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}

	logger := telemetry.NewLogger(cfg.LogLevel)

	metrics, err := telemetry.NewMetrics("rwsemd", cfg.MetricsRetain)
	if err != nil {
		logger.Error("failed to start metrics sink", "error", err)
		return 1
	}
	defer metrics.Close()

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.ListenAddr, "error", err)
		return 1
	}

	transport := ipc.NewYamuxTransport(ln, logger)
	dispatcher := ipc.NewDispatcher(cfg.Capacity, cfg.MaxQueueDepth, metrics, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// errgroup.Wait only ever surfaces the first goroutine's error, so a
	// failure in the dispatch loop that races a failed transport.Close on
	// shutdown would silently swallow one of the two. Both are recorded
	// independently and merged with multierror the way consul's agent
	// shutdown path (agent/agent.go ShutdownAgent) combines per-component
	// teardown errors instead of dropping all but one.
	var dispatchErr, closeErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dispatchErr = dispatcher.Run(gctx, transport)
		return dispatchErr
	})
	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-gctx.Done():
		}
		cancel()
		closeErr = transport.Close()
		return closeErr
	})

	logger.Info("rwsemd listening", "addr", cfg.ListenAddr, "capacity", cfg.Capacity)
	g.Wait()

	var result *multierror.Error
	if dispatchErr != nil && !errors.Is(dispatchErr, context.Canceled) {
		result = multierror.Append(result, fmt.Errorf("dispatch: %w", dispatchErr))
	}
	if closeErr != nil {
		result = multierror.Append(result, fmt.Errorf("transport close: %w", closeErr))
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Error("server exited with error", "error", err)
		return 1
	}
	fmt.Fprintln(os.Stderr, "rwsemd: shut down")
	return 0
}
