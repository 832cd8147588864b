// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package pdh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerfCounterInvalidPath(t *testing.T) {
	_, err := NewPerfCounter("Invalid Counter Path", false)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "PdhAddEnglishCounter")
	}
}

func TestNewPerfCounter(t *testing.T) {
	pc, err := NewPerfCounter(`\Memory\Committed Bytes`, false)
	require.NoError(t, err, "Failed to create performance counter: %v", err)

	assert.NotZero(t, pc.query)
	assert.NotZero(t, pc.handle)
	assert.Equal(t, `\Memory\Committed Bytes`, pc.Path())

	value, err := pc.RawValue()
	require.NoError(t, err)
	assert.Greater(t, value.Value, int64(0))
	// Committed Bytes is an instantaneous count.
	assert.Zero(t, value.SystemFrequency)

	require.NoError(t, pc.Close())
}

func TestPerfCounterRateType(t *testing.T) {
	pc, err := NewPerfCounter(`\Processor(_Total)\% Processor Time`, true)
	require.NoError(t, err)

	value, err := pc.RawValue()
	require.NoError(t, err)
	assert.True(t, IsRate(value.CounterType))
	assert.Equal(t, int64(filetimeTicksPerSecond), value.SystemFrequency)

	require.NoError(t, pc.Close())
}

func TestPerfCounterClose(t *testing.T) {
	pc, err := NewPerfCounter(`\Memory\Committed Bytes`, false)
	require.NoError(t, err)

	require.NoError(t, pc.Close())

	err = pc.Close()
	if assert.Error(t, err) {
		assert.Equal(t, "uninitialised query", err.Error())
	}

	_, err = pc.RawValue()
	assert.ErrorIs(t, err, errUninitializedQuery)
}

func TestEnumObjectItems(t *testing.T) {
	counters, instances, err := EnumObjectItems("Processor")
	require.NoError(t, err)

	assert.NotEmpty(t, counters)
	assert.Contains(t, instances, "_Total")
}

func TestSplitStringList(t *testing.T) {
	buf := []uint16{'a', 0, 'b', '#', '1', 0, 0}
	assert.Equal(t, []string{"a", "b#1"}, splitStringList(buf))

	assert.Empty(t, splitStringList([]uint16{0}))
	assert.Empty(t, splitStringList(nil))
}
