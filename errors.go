// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import (
	"errors"
	"strings"
)

// ErrClosed is returned by Value on a sampler that is closed or was
// never initialized.
var ErrClosed = errors.New("sampler is closed")

// ErrPlatformSupport is returned by the default provider on platforms
// without a performance counter subsystem.
var ErrPlatformSupport = errors.New("performance counters are only supported on Windows")

// InitError reports counters that could not be initialized.
type InitError struct {
	FailedCounters []string
}

func (e *InitError) Error() string {
	return "failed to init counters: " + strings.Join(e.FailedCounters, "; ")
}

func (e *InitError) AddFailure(counter string) {
	e.FailedCounters = append(e.FailedCounters, counter)
}

// MarkFatal tags err as fatal: a failure that means the process, not
// just the operation, is in a bad state. Fatal errors must propagate;
// fallback paths may only swallow untagged errors.
func MarkFatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err, or any error it wraps, was tagged with
// MarkFatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }
