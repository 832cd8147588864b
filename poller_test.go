// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilinna/clock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPollerDeliversValues(t *testing.T) {
	handle := &mockHandle{samples: []RawSample{
		{Value: 10, Timestamp: 1, CounterType: CounterTypeRawCount},
		{Value: 12, Timestamp: 2, CounterType: CounterTypeRawCount},
	}}
	s := newTestSampler(handle)

	values := make(chan float64, 16)
	p := NewPoller(s, time.Second, func(v float64) { values <- v }, zap.NewNop())

	mock := clock.NewMock(time.Unix(0, 0))
	ctx := clock.Context(context.Background(), mock)
	require.NoError(t, p.Start(ctx))
	defer func() {
		assert.NoError(t, p.Shutdown(context.Background()))
	}()

	var got []float64
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		for {
			select {
			case v := <-values:
				got = append(got, v)
			default:
				return len(got) >= 2
			}
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, []float64{10, 12}, got[:2])
}

func TestPollerLogsReadErrors(t *testing.T) {
	s := newTestSampler(&mockHandle{readErr: errors.New("the instance is gone")})

	core, obs := observer.New(zapcore.WarnLevel)
	p := NewPoller(s, time.Second, func(float64) {
		t.Error("no value should be delivered for a failing read")
	}, zap.New(core))

	mock := clock.NewMock(time.Unix(0, 0))
	ctx := clock.Context(context.Background(), mock)
	require.NoError(t, p.Start(ctx))
	defer func() {
		assert.NoError(t, p.Shutdown(context.Background()))
	}()

	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return obs.FilterMessage("failed to read counter").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPollerInvalidInterval(t *testing.T) {
	p := NewPoller(newTestSampler(&mockHandle{}), 0, func(float64) {}, nil)
	assert.ErrorIs(t, p.Start(context.Background()), errNonPositiveInterval)
}

// Shutdown may run without a prior Start when a host fails part way
// through its own startup; it must be a no-op rather than a panic.
func TestPollerShutdownWithoutStart(t *testing.T) {
	p := NewPoller(newTestSampler(&mockHandle{}), time.Second, func(float64) {}, nil)
	require.NoError(t, p.Shutdown(context.Background()))
}
