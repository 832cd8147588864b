// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package wmiprocinfo // import "github.com/perfrate/perfrate/internal/wmiprocinfo"

func NewManager() Manager {
	return unsupportedManager{}
}

type unsupportedManager struct{}

func (unsupportedManager) Refresh() error {
	return ErrPlatformSupport
}

func (unsupportedManager) InstanceName(int64) (string, error) {
	return "", ErrPlatformSupport
}
