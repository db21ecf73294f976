package measurement

import (
	"errors"
	"sync"

	"github.com/mtraver/sensorutils/stats"
)

// Recorder accumulates the values of a stream of Measurements, one
// accumulator per metric. It is safe for concurrent use.
type Recorder struct {
	capacity int

	mu   sync.Mutex
	accs map[string]*stats.Locked
}

// NewRecorder returns a Recorder whose per-metric accumulators start with
// room for capacity samples.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{
		capacity: capacity,
		accs:     make(map[string]*stats.Locked),
	}
}

// acc must be called with r.mu held.
func (r *Recorder) acc(name string) *stats.Locked {
	acc, ok := r.accs[name]
	if !ok {
		acc = stats.NewLocked(r.capacity)
		r.accs[name] = acc
	}
	return acc
}

// Record adds every value in m, derived values included.
func (r *Recorder) Record(m Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range m.ValueMap() {
		r.acc(k).Add(v)
	}
}

// Metrics returns the names of the metrics recorded so far, sorted.
func (r *Recorder) Metrics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedKeys(r.accs)
}

// Summaries computes and returns a Summary for each recorded metric. Metrics
// with no values since the last Reset are left out.
func (r *Recorder) Summaries() (map[string]stats.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make(map[string]stats.Summary, len(r.accs))
	for k, acc := range r.accs {
		s, err := acc.Snapshot()
		if errors.Is(err, stats.ErrEmptyDataset) {
			continue
		} else if err != nil {
			return nil, err
		}
		summaries[k] = s
	}

	return summaries, nil
}

// Reset drops all recorded values. Metrics stay known to the Recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range r.accs {
		acc.Reset()
	}
}

// Close releases all accumulators and forgets every metric. Calls that race
// with Close see either the old metrics or none.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, acc := range r.accs {
		acc.Close()
		delete(r.accs, k)
	}
}
