// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	type testCase struct {
		name        string
		cfg         Config
		expectedErr []error
	}

	testCases := []testCase{
		{
			name: "valid",
			cfg:  Config{Object: "Memory", Counter: "Committed Bytes"},
		},
		{
			name: "valid with instance and machine",
			cfg:  Config{Object: "Process", Counter: "% Processor Time", Instance: "app#1", MachineName: "HOST"},
		},
		{
			name:        "missing object",
			cfg:         Config{Counter: "Committed Bytes"},
			expectedErr: []error{errObjectRequired},
		},
		{
			name:        "missing counter",
			cfg:         Config{Object: "Memory"},
			expectedErr: []error{errCounterRequired},
		},
		{
			name:        "missing both",
			cfg:         Config{},
			expectedErr: []error{errObjectRequired, errCounterRequired},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if len(test.expectedErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, expected := range test.expectedErr {
				assert.ErrorIs(t, err, expected)
			}
		})
	}
}

func TestCounterSpecPath(t *testing.T) {
	type testCase struct {
		name     string
		spec     CounterSpec
		expected string
	}

	testCases := []testCase{
		{
			name:     "object and counter",
			spec:     CounterSpec{Object: "Memory", Counter: "Committed Bytes"},
			expected: `\Memory\Committed Bytes`,
		},
		{
			name:     "with instance",
			spec:     CounterSpec{Object: "Process", Counter: "% Processor Time", Instance: "app#1"},
			expected: `\Process(app#1)\% Processor Time`,
		},
		{
			name:     "with machine",
			spec:     CounterSpec{Object: "Memory", Counter: "Committed Bytes", MachineName: "HOST"},
			expected: `\\HOST\Memory\Committed Bytes`,
		},
		{
			name:     "with machine and instance",
			spec:     CounterSpec{Object: "Process", Counter: "% Processor Time", Instance: "app", MachineName: "HOST"},
			expected: `\\HOST\Process(app)\% Processor Time`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.spec.Path())
		})
	}
}
