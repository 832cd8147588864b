// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

// Package pdh wraps the Windows Performance Data Helper API for raw,
// single-counter queries.
package pdh // import "github.com/perfrate/perfrate/internal/pdh"

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

var errUninitializedQuery = errors.New("uninitialised query")

// filetimeTicksPerSecond is the tick rate of the FILETIME timestamps
// carried by raw counter values (100 ns units).
const filetimeTicksPerSecond = 10_000_000

// RawValue is one raw reading together with the counter's winperf type
// word. SystemFrequency is filetimeTicksPerSecond for frequency-based
// counters and 0 for instantaneous ones, matching the Timestamp units.
type RawValue struct {
	Value           int64
	Timestamp       int64
	SystemFrequency int64
	CounterType     uint32
}

// PerfCounter is one open counter inside its own PDH query.
type PerfCounter struct {
	path        string
	query       pdhQueryHandle
	handle      pdhCounterHandle
	counterType uint32
}

// NewPerfCounter opens the counter at path inside a fresh query. With
// collectOnStartup set, one collection is performed immediately so the
// first RawValue call has a baseline.
func NewPerfCounter(path string, collectOnStartup bool) (*PerfCounter, error) {
	var query pdhQueryHandle
	if status := pdhOpenQuery(0, &query); status != errorSuccess {
		return nil, newPdhError("PdhOpenQuery", status)
	}

	var handle pdhCounterHandle
	if status := pdhAddEnglishCounter(query, path, 0, &handle); status != errorSuccess {
		err := newPdhError("PdhAddEnglishCounter", status)
		if closeStatus := pdhCloseQuery(query); closeStatus != errorSuccess {
			err = multierr.Append(err, newPdhError("PdhCloseQuery", closeStatus))
		}
		return nil, err
	}

	pc := &PerfCounter{path: path, query: query, handle: handle}

	counterType, err := counterInfoType(handle)
	if err != nil {
		err = multierr.Append(err, pc.Close())
		return nil, err
	}
	pc.counterType = counterType

	if collectOnStartup {
		if status := pdhCollectQueryData(query); status != errorSuccess {
			err := newPdhError("PdhCollectQueryData", status)
			err = multierr.Append(err, pc.Close())
			return nil, err
		}
	}

	return pc, nil
}

// Path returns the counter path.
func (pc *PerfCounter) Path() string {
	return pc.path
}

// RawValue collects the query and returns the counter's newest raw
// value. The underlying handle becomes invalid when the counted object
// disappears, e.g. when a watched process exits; the resulting error
// propagates to the caller.
func (pc *PerfCounter) RawValue() (RawValue, error) {
	if pc.query == 0 {
		return RawValue{}, errUninitializedQuery
	}
	if status := pdhCollectQueryData(pc.query); status != errorSuccess {
		return RawValue{}, newPdhError("PdhCollectQueryData", status)
	}

	var raw pdhRawCounter
	if status := pdhGetRawCounterValue(pc.handle, nil, &raw); status != errorSuccess {
		return RawValue{}, newPdhError("PdhGetRawCounterValue", status)
	}
	if raw.CStatus != pdhCstatusValidData && raw.CStatus != pdhCstatusNewData {
		return RawValue{}, fmt.Errorf("counter %s: invalid data, CStatus=%#x", pc.path, raw.CStatus)
	}

	value := RawValue{
		Value:       raw.FirstValue,
		Timestamp:   filetimeTicks(raw.TimeStamp),
		CounterType: pc.counterType,
	}
	if IsRate(pc.counterType) {
		value.SystemFrequency = filetimeTicksPerSecond
	}
	return value, nil
}

// Close closes the query and all counters within it. Closing an already
// closed counter reports errUninitializedQuery.
func (pc *PerfCounter) Close() error {
	if pc.query == 0 {
		return errUninitializedQuery
	}
	status := pdhCloseQuery(pc.query)
	pc.query = 0
	pc.handle = 0
	if status != errorSuccess {
		return newPdhError("PdhCloseQuery", status)
	}
	return nil
}

// EnumObjectItems lists the counter and instance names registered under
// object on the local machine.
func EnumObjectItems(object string) (counters, instances []string, err error) {
	var counterLen, instanceLen uint32
	status := pdhEnumObjectItems(object, nil, &counterLen, nil, &instanceLen)
	if status != errorSuccess && status != pdhMoreData {
		return nil, nil, newPdhError("PdhEnumObjectItems", status)
	}

	counterBuf := make([]uint16, counterLen)
	instanceBuf := make([]uint16, instanceLen)
	status = pdhEnumObjectItems(object, bufPtr(counterBuf), &counterLen, bufPtr(instanceBuf), &instanceLen)
	if status != errorSuccess {
		return nil, nil, newPdhError("PdhEnumObjectItems", status)
	}

	return splitStringList(counterBuf), splitStringList(instanceBuf), nil
}

func filetimeTicks(ft windows.Filetime) int64 {
	return int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
}

// splitStringList decodes a double-null terminated list of UTF-16
// strings.
func splitStringList(buf []uint16) []string {
	var items []string
	start := 0
	for i, c := range buf {
		if c != 0 {
			continue
		}
		if i == start {
			break
		}
		items = append(items, windows.UTF16ToString(buf[start:i]))
		start = i + 1
	}
	return items
}
