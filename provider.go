// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

import "fmt"

// CounterSpec identifies one performance counter.
type CounterSpec struct {
	Object      string
	Counter     string
	Instance    string
	MachineName string
	// ReadOnly requests read access only. The PDH provider always opens
	// counters read-only; custom providers may honor it differently.
	ReadOnly bool
}

// Path renders the spec in counter path syntax, e.g.
// \\HOST\Process(app#1)\% Processor Time.
func (cs CounterSpec) Path() string {
	instance := cs.Instance
	if instance != "" {
		instance = fmt.Sprintf("(%s)", instance)
	}

	path := fmt.Sprintf(`\%s%s\%s`, cs.Object, instance, cs.Counter)
	if cs.MachineName != "" {
		path = fmt.Sprintf(`\\%s%s`, cs.MachineName, path)
	}
	return path
}

// CounterHandle owns the connection to one open performance counter.
type CounterHandle interface {
	// Path returns the counter path the handle was opened with.
	Path() string
	// NextRawSample pulls a new raw reading from the counter.
	NextRawSample() (RawSample, error)
	// Close releases the counter and frees all associated memory.
	Close() error
}

// Provider is the opaque OS counter subsystem behind a sampler. The
// sampling algorithm only ever touches counters through it, which keeps
// the algorithm testable against a scripted implementation.
type Provider interface {
	// Open connects to the counter identified by spec.
	Open(spec CounterSpec) (CounterHandle, error)
	// Instances enumerates the instance names registered under object.
	Instances(object string) ([]string, error)
}
