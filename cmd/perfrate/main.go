// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

// perfrate polls one performance counter and prints a value per tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/perfrate/perfrate"
)

func main() {
	var (
		object   = flag.String("object", "", "performance counter object, e.g. Processor")
		counter  = flag.String("counter", "", "counter name within the object, e.g. % Processor Time")
		instance = flag.String("instance", "", "optional instance name; auto-detected for the Process object")
		machine  = flag.String("machine", "", "optional remote machine name")
		interval = flag.Duration("interval", time.Second, "time between reads")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := &perfrate.Config{
		Object:      *object,
		Counter:     *counter,
		Instance:    *instance,
		MachineName: *machine,
	}
	if err := run(cfg, *interval, logger); err != nil {
		logger.Fatal("perfrate failed", zap.Error(err))
	}
}

func run(cfg *perfrate.Config, interval time.Duration, logger *zap.Logger) error {
	sampler := perfrate.NewRateSampler(cfg, logger)
	if err := sampler.Initialize(); err != nil {
		return err
	}
	defer func() { _ = sampler.Close() }()

	poller := perfrate.NewPoller(sampler, interval, func(value float64) {
		fmt.Printf("%s\t%g\n", sampler.Path(), value)
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := poller.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return poller.Shutdown(shutdownCtx)
}
