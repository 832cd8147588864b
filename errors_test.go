// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkFatal(t *testing.T) {
	assert.NoError(t, MarkFatal(nil))

	base := errors.New("memory allocation failure")
	fatal := MarkFatal(base)
	assert.True(t, IsFatal(fatal))
	assert.ErrorIs(t, fatal, base)
	assert.Equal(t, base.Error(), fatal.Error())

	// The tag survives wrapping.
	assert.True(t, IsFatal(fmt.Errorf("probing instance: %w", fatal)))
}

func TestIsFatalPlainError(t *testing.T) {
	assert.False(t, IsFatal(errors.New("access is denied")))
	assert.False(t, IsFatal(nil))
}

func TestInitError(t *testing.T) {
	var initErr InitError
	initErr.AddFailure(`\A\B: no such object`)
	initErr.AddFailure(`\C\D: access denied`)
	assert.Equal(t, `failed to init counters: \A\B: no such object; \C\D: access denied`, initErr.Error())
}
