// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// staleAfterSeconds is how much counter time must pass before the
	// retained reference samples advance. PDH recommends at least one
	// second between reads of rate counters; half that debounces hosts
	// that read on every event.
	staleAfterSeconds = 0.5

	processObject    = "Process"
	processIDCounter = "ID Process"
)

// RateSampler reads one performance counter and converts successive raw
// samples into a value using the two-sample counter formulas. It retains
// a (previous, current) sample pair: for frequency-based counters the
// pair only rotates once staleAfterSeconds of counter time have passed,
// while the returned value is always computed against the newest raw
// read. Non-frequency counters rotate on every read.
//
// A RateSampler must not be used from multiple goroutines without
// external synchronization. Independent samplers are fully independent.
type RateSampler struct {
	logger   *zap.Logger
	provider Provider
	cfg      *Config

	spec     CounterSpec
	handle   CounterHandle
	previous RawSample
	current  RawSample
}

// Option configures a RateSampler.
type Option func(*RateSampler)

// WithProvider overrides the OS counter provider. Hosts that bring
// their own counter source, and tests, use this.
func WithProvider(provider Provider) Option {
	return func(s *RateSampler) {
		s.provider = provider
	}
}

// NewRateSampler returns an unopened sampler for cfg. A nil logger
// disables logging.
func NewRateSampler(cfg *Config, logger *zap.Logger, opts ...Option) *RateSampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RateSampler{
		logger:   logger,
		provider: DefaultProvider(),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize validates the configuration, resolves the process instance
// when none is configured, opens the counter and performs one warm-up
// read so the first caller-visible value of a frequency-based counter
// has a baseline. A failure here is fatal to the sampler.
func (s *RateSampler) Initialize() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	spec := s.cfg.counterSpec()
	if spec.MachineName == "" && spec.Instance == "" && strings.EqualFold(spec.Object, processObject) {
		instance, err := s.InstanceName(spec.Object)
		if err != nil {
			return err
		}
		spec.Instance = instance
	}

	handle, err := s.provider.Open(spec)
	if err != nil {
		return fmt.Errorf("counter %v: %w", spec.Path(), err)
	}
	s.spec = spec
	s.handle = handle

	if _, err := s.Value(); err != nil {
		err = multierr.Append(err, s.Close())
		return fmt.Errorf("counter %v: warm-up read: %w", spec.Path(), err)
	}
	return nil
}

// Value pulls a new raw sample, advances the retained pair according to
// the staleness rule and returns the value computed against the newest
// read. Read failures propagate; the host decides whether to retry on
// its next tick or close the sampler.
func (s *RateSampler) Value() (float64, error) {
	if s.handle == nil {
		return 0, ErrClosed
	}

	sample, err := s.handle.NextRawSample()
	if err != nil {
		return 0, err
	}

	if sample.SystemFrequency != 0 {
		elapsedSeconds := float64(sample.Timestamp-s.current.Timestamp) / float64(sample.SystemFrequency)
		if math.Abs(elapsedSeconds) > staleAfterSeconds {
			s.previous = s.current
			s.current = sample
			if s.previous.IsEmpty() {
				// First rotation: measure against the sample itself
				// rather than the empty sentinel.
				s.previous = sample
			}
		}
	} else {
		s.previous = s.current
		s.current = sample
	}

	return CalculateDelta(s.previous, sample), nil
}

// Path returns the path of the counter the sampler reads. Before
// Initialize it renders the configured spec without any resolved
// instance.
func (s *RateSampler) Path() string {
	if s.spec != (CounterSpec{}) {
		return s.spec.Path()
	}
	return s.cfg.counterSpec().Path()
}

// Close releases the counter handle and resets the retained samples.
// Closing an already closed sampler is a no-op.
func (s *RateSampler) Close() error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.Close()
	s.handle = nil
	s.previous = RawSample{}
	s.current = RawSample{}
	return err
}

// BuildSamplers creates and initializes one sampler per configuration.
// Configurations that fail to initialize are reported in the returned
// *InitError; the remaining samplers are opened and usable.
func BuildSamplers(cfgs []Config, logger *zap.Logger, opts ...Option) ([]*RateSampler, error) {
	var initErr InitError
	var samplers []*RateSampler

	for i := range cfgs {
		s := NewRateSampler(&cfgs[i], logger, opts...)
		if err := s.Initialize(); err != nil {
			initErr.AddFailure(fmt.Sprintf("%v: %v", cfgs[i].counterSpec().Path(), err))
			continue
		}
		samplers = append(samplers, s)
	}

	if len(initErr.FailedCounters) > 0 {
		return samplers, &initErr
	}
	return samplers, nil
}

// CloseSamplers closes the passed in samplers, combining their errors.
func CloseSamplers(samplers []*RateSampler) error {
	var errs error
	for _, s := range samplers {
		errs = multierr.Append(errs, s.Close())
	}
	return errs
}
