// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import (
	"context"
	"errors"
	"time"

	"github.com/tilinna/clock"
	"go.uber.org/zap"
)

var errNonPositiveInterval = errors.New("poll interval must be positive")

// Poller reads a sampler at a fixed interval and hands each value to a
// consumer callback. Read errors are logged and the loop keeps going;
// the host decides separately when to close the sampler.
//
// The poller owns the sampler between Start and Shutdown: callers must
// not invoke Value themselves while the loop runs.
type Poller struct {
	sampler  *RateSampler
	interval time.Duration
	consume  func(float64)
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns an unstarted poller. A nil logger disables logging.
func NewPoller(sampler *RateSampler, interval time.Duration, consume func(float64), logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		sampler:  sampler,
		interval: interval,
		consume:  consume,
		logger:   logger,
	}
}

// Start launches the polling loop. The clock is taken from ctx, so
// tests can drive the loop with a mock clock.
func (p *Poller) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return errNonPositiveInterval
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx, clock.FromContext(ctx))
	return nil
}

func (p *Poller) run(ctx context.Context, c clock.Clock) {
	defer close(p.done)

	ticker := c.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			value, err := p.sampler.Value()
			if err != nil {
				p.logger.Warn("failed to read counter", zap.String("path", p.sampler.Path()), zap.Error(err))
				continue
			}
			p.consume(value)
		}
	}
}

// Shutdown stops the loop and waits for it to exit. It is safe to call
// without a prior Start.
func (p *Poller) Shutdown(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
