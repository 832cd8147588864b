// Copyright The perfrate Authors
// SPDX-License-Identifier: Apache-2.0

package perfrate // import "github.com/perfrate/perfrate"

// CounterType describes how two successive raw samples of a counter
// combine into a reported value.
type CounterType int32

const (
	// CounterTypeRawCount reports the newest raw value as-is.
	CounterTypeRawCount CounterType = iota
	// CounterTypeDelta reports the plain difference between the two
	// raw values.
	CounterTypeDelta
	// CounterTypeRatePerSecond reports the raw value difference divided
	// by the elapsed seconds between the samples.
	CounterTypeRatePerSecond
	// CounterTypePercent reports the ratio of the raw value difference
	// to the timestamp difference scaled to 0-100, for timers whose raw
	// value accumulates time in the same units as the timestamp.
	CounterTypePercent
)

// RawSample is a single reading taken from a performance counter.
// The zero value is the "no sample yet" sentinel.
type RawSample struct {
	// Value is the raw counter value.
	Value int64
	// Timestamp is the reading time in monotonic counter ticks.
	Timestamp int64
	// SystemFrequency is the tick rate of Timestamp in ticks per
	// second. It is 0 when the counter is not frequency-based.
	SystemFrequency int64
	// CounterType selects the two-sample formula.
	CounterType CounterType
}

// IsEmpty reports whether the sample is the zero sentinel.
func (s RawSample) IsEmpty() bool {
	return s == RawSample{}
}

// CalculateDelta combines a reference sample and the newest raw sample
// into a reported value using the standard two-sample counter formulas.
// A non-positive elapsed interval yields 0 for rate and percent types,
// so calculating against a reference equal to the newest sample is
// well-defined.
func CalculateDelta(previous, current RawSample) float64 {
	switch current.CounterType {
	case CounterTypeDelta:
		return float64(current.Value - previous.Value)
	case CounterTypeRatePerSecond:
		if current.SystemFrequency == 0 {
			return 0
		}
		elapsedSeconds := float64(current.Timestamp-previous.Timestamp) / float64(current.SystemFrequency)
		if elapsedSeconds <= 0 {
			return 0
		}
		return float64(current.Value-previous.Value) / elapsedSeconds
	case CounterTypePercent:
		elapsedTicks := current.Timestamp - previous.Timestamp
		if elapsedTicks <= 0 {
			return 0
		}
		return 100 * float64(current.Value-previous.Value) / float64(elapsedTicks)
	default:
		return float64(current.Value)
	}
}
