// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package perfrate // import "github.com/perfrate/perfrate"

import (
	"github.com/perfrate/perfrate/internal/pdh"
)

// DefaultProvider returns the PDH backed counter provider.
func DefaultProvider() Provider {
	return pdhProvider{}
}

type pdhProvider struct{}

func (pdhProvider) Open(spec CounterSpec) (CounterHandle, error) {
	counter, err := pdh.NewPerfCounter(spec.Path(), false)
	if err != nil {
		return nil, classifyPdhError(err)
	}
	return &pdhHandle{counter: counter}, nil
}

func (pdhProvider) Instances(object string) ([]string, error) {
	_, instances, err := pdh.EnumObjectItems(object)
	if err != nil {
		return nil, classifyPdhError(err)
	}
	return instances, nil
}

type pdhHandle struct {
	counter *pdh.PerfCounter
}

func (h *pdhHandle) Path() string {
	return h.counter.Path()
}

func (h *pdhHandle) NextRawSample() (RawSample, error) {
	raw, err := h.counter.RawValue()
	if err != nil {
		return RawSample{}, classifyPdhError(err)
	}
	return RawSample{
		Value:           raw.Value,
		Timestamp:       raw.Timestamp,
		SystemFrequency: raw.SystemFrequency,
		CounterType:     counterTypeFromPdh(raw.CounterType),
	}, nil
}

func (h *pdhHandle) Close() error {
	return h.counter.Close()
}

// counterTypeFromPdh buckets a winperf type word into the two-sample
// formula the counter needs.
func counterTypeFromPdh(dwType uint32) CounterType {
	switch {
	case pdh.DisplaysPercent(dwType):
		return CounterTypePercent
	case pdh.DisplaysPerSecond(dwType):
		return CounterTypeRatePerSecond
	case pdh.IsRate(dwType):
		return CounterTypeDelta
	default:
		return CounterTypeRawCount
	}
}

// classifyPdhError tags errors that indicate the process cannot
// continue, so fallback paths never swallow them.
func classifyPdhError(err error) error {
	if pdh.IsAllocationFailure(err) {
		return MarkFatal(err)
	}
	return err
}
