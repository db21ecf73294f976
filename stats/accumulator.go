// Package stats accumulates scalar sensor samples and computes descriptive
// statistics over them on demand.
//
// An Accumulator is not safe for concurrent use; wrap it in a Locked when it
// is shared between goroutines.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned by Compute when no samples have been added.
	ErrEmptyDataset = errors.New("stats: no samples")

	// ErrClosed is the value an Accumulator panics with when it is used after Close.
	ErrClosed = errors.New("stats: use of closed accumulator")
)

// Accumulator holds an ordered, growable buffer of samples and the Summary most
// recently computed from them. The zero value is not usable; call New.
type Accumulator struct {
	// len(samples) is the capacity. Only samples[:count] are valid.
	samples []float64
	count   int

	computed Summary
	stale    bool
	closed   bool
}

// New returns an empty Accumulator with room for capacity samples before its
// buffer has to grow. A capacity of zero is fine; the buffer is allocated on
// the first Add. New panics if capacity is negative.
func New(capacity int) *Accumulator {
	if capacity < 0 {
		panic(fmt.Sprintf("stats: negative capacity %d", capacity))
	}

	return &Accumulator{
		samples: make([]float64, capacity),
		stale:   true,
	}
}

func (a *Accumulator) mustBeOpen() {
	if a.closed {
		panic(ErrClosed)
	}
}

// grow doubles the buffer, preserving the order of the valid samples.
func (a *Accumulator) grow() {
	n := 2 * len(a.samples)
	if n == 0 {
		n = 1
	}

	s := make([]float64, n)
	copy(s, a.samples[:a.count])
	a.samples = s
}

// Add appends v as the next sample. NaN and ±Inf are stored as given and will
// propagate into the next computed Summary. Add marks the current Summary stale.
func (a *Accumulator) Add(v float64) {
	a.mustBeOpen()

	if a.count == len(a.samples) {
		a.grow()
	}
	a.samples[a.count] = v
	a.count++
	a.stale = true
}

// AddAll adds each of vs in order.
func (a *Accumulator) AddAll(vs ...float64) {
	for _, v := range vs {
		a.Add(v)
	}
}

// Len returns the number of samples added.
func (a *Accumulator) Len() int {
	a.mustBeOpen()
	return a.count
}

// Cap returns the number of samples the buffer can hold before it grows.
func (a *Accumulator) Cap() int {
	a.mustBeOpen()
	return len(a.samples)
}

// Samples returns a copy of the samples in the order they were added.
func (a *Accumulator) Samples() []float64 {
	a.mustBeOpen()

	s := make([]float64, a.count)
	copy(s, a.samples[:a.count])
	return s
}

// Stale reports whether samples have been added (or the Accumulator reset)
// since the last call to Compute, or Compute has never been called.
func (a *Accumulator) Stale() bool {
	a.mustBeOpen()
	return a.stale
}

// Compute derives a new Summary from the current samples and stores it,
// replacing the previous one. With no samples the stored Summary is the zero
// Summary and ErrEmptyDataset is returned.
func (a *Accumulator) Compute() error {
	a.mustBeOpen()

	s, err := Summarize(a.samples[:a.count])
	s.Capacity = len(a.samples)
	a.computed = s
	a.stale = false
	return err
}

// Summary returns the Summary stored by the last call to Compute. It does not
// compute anything itself.
func (a *Accumulator) Summary() Summary {
	a.mustBeOpen()
	return a.computed
}

// JSON returns the JSON encoding of the Summary stored by the last call to
// Compute. Before any Compute that is the encoding of the zero Summary.
func (a *Accumulator) JSON() ([]byte, error) {
	a.mustBeOpen()
	return json.Marshal(a.computed)
}

// Reset drops all samples and the stored Summary but keeps the buffer.
func (a *Accumulator) Reset() {
	a.mustBeOpen()

	a.count = 0
	a.computed = Summary{}
	a.stale = true
}

// Close releases the sample buffer. Any later use of the Accumulator,
// including a second Close, panics with ErrClosed.
func (a *Accumulator) Close() {
	a.mustBeOpen()

	a.samples = nil
	a.count = 0
	a.computed = Summary{}
	a.closed = true
}
