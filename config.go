// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import (
	"errors"

	"go.uber.org/multierr"
)

var (
	errObjectRequired  = errors.New(`"object" must be specified`)
	errCounterRequired = errors.New(`"counter" must be specified`)
)

// Config defines the counter a sampler reads.
type Config struct {
	// Object is the performance counter object (category), e.g.
	// "Process" or "Memory".
	Object string `mapstructure:"object"`
	// Counter is the counter name within the object, e.g.
	// "% Processor Time".
	Counter string `mapstructure:"counter"`
	// Instance optionally pins a specific instance. When empty and
	// Object is the process object, the sampler resolves the instance
	// belonging to the current process.
	Instance string `mapstructure:"instance"`
	// MachineName optionally targets a remote machine. Setting it
	// disables instance auto-detection.
	MachineName string `mapstructure:"machine_name"`
}

// Validate checks that the required fields are present.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.Object == "" {
		errs = multierr.Append(errs, errObjectRequired)
	}
	if cfg.Counter == "" {
		errs = multierr.Append(errs, errCounterRequired)
	}
	return errs
}

func (cfg *Config) counterSpec() CounterSpec {
	return CounterSpec{
		Object:      cfg.Object,
		Counter:     cfg.Counter,
		Instance:    cfg.Instance,
		MachineName: cfg.MachineName,
		ReadOnly:    true,
	}
}
