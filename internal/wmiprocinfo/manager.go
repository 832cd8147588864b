// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package wmiprocinfo // import "github.com/perfrate/perfrate/internal/wmiprocinfo"

import "errors"

var ErrPlatformSupport = errors.New("wmi process info collection is only supported on Windows")

// Manager maps process ids to the performance counter instance names
// the OS has registered for them.
type Manager interface {
	Refresh() error
	InstanceName(pid int64) (string, error)
}
