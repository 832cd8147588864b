// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package perfrate reads Windows performance counters at irregular
// intervals and converts successive raw samples into stable values
// using the standard two-sample counter formulas.
//
// The OS counter subsystem is abstracted behind the Provider interface,
// so the sampling algorithm is portable and testable anywhere; the PDH
// backed provider in internal/pdh is only available on Windows.
package perfrate // import "github.com/perfrate/perfrate"
