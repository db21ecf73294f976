package stats

import "sync"

// Locked is an Accumulator guarded by a mutex, for use from multiple goroutines.
type Locked struct {
	mu  sync.Mutex
	acc *Accumulator
}

// NewLocked returns a Locked wrapping New(capacity).
func NewLocked(capacity int) *Locked {
	return &Locked{
		acc: New(capacity),
	}
}

// Add locks l and calls Accumulator.Add.
func (l *Locked) Add(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.acc.Add(v)
}

// AddAll locks l and calls Accumulator.AddAll.
func (l *Locked) AddAll(vs ...float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.acc.AddAll(vs...)
}

// Len locks l and calls Accumulator.Len.
func (l *Locked) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.acc.Len()
}

// Compute locks l and calls Accumulator.Compute.
func (l *Locked) Compute() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.acc.Compute()
}

// Summary locks l and calls Accumulator.Summary.
func (l *Locked) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.acc.Summary()
}

// JSON locks l and calls Accumulator.JSON.
func (l *Locked) JSON() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.acc.JSON()
}

// Snapshot computes and returns a Summary while holding the lock, so no Add
// can slip in between the two.
func (l *Locked) Snapshot() (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.acc.Compute()
	return l.acc.Summary(), err
}

// Reset locks l and calls Accumulator.Reset.
func (l *Locked) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.acc.Reset()
}

// Close locks l and calls Accumulator.Close.
func (l *Locked) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.acc.Close()
}
