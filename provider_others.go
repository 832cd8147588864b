// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package perfrate // import "github.com/perfrate/perfrate"

// DefaultProvider returns a provider that fails every operation with
// ErrPlatformSupport. Hosts on other platforms supply a counter source
// through WithProvider.
func DefaultProvider() Provider {
	return unsupportedProvider{}
}

type unsupportedProvider struct{}

func (unsupportedProvider) Open(CounterSpec) (CounterHandle, error) {
	return nil, ErrPlatformSupport
}

func (unsupportedProvider) Instances(string) ([]string, error) {
	return nil, ErrPlatformSupport
}
