// Package sink publishes summary statistics to external systems.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mtraver/sensorutils/measurement"
	"github.com/mtraver/sensorutils/stats"
)

// Report is the set of per-metric summaries computed for one device at one time.
type Report struct {
	DeviceID  string
	Timestamp time.Time
	Summaries map[string]stats.Summary
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	metrics, err := measurement.SummaryMapToJSON(r.Summaries)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		DeviceID  string          `json:"device_id"`
		Timestamp time.Time       `json:"timestamp"`
		Metrics   json.RawMessage `json:"metrics"`
	}{r.DeviceID, r.Timestamp, metrics})
}

func (r Report) metricNames() []string {
	names := make([]string, 0, len(r.Summaries))
	for k := range r.Summaries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Sink interface {
	Publish(ctx context.Context, r Report) error
}

// Log is a Sink that writes reports to the standard logger.
type Log struct{}

func (Log) Publish(ctx context.Context, r Report) error {
	for _, name := range r.metricNames() {
		log.Printf("%s %s %s", r.DeviceID, name, r.Summaries[name])
	}
	return nil
}

// Multi is a Sink that publishes to each of its named sinks concurrently.
type Multi map[string]Sink

func (m Multi) Publish(ctx context.Context, r Report) error {
	var wg sync.WaitGroup

	errs := make(chan error, len(m))

	for name, s := range m {
		wg.Add(1)
		go func(name string, s Sink) {
			defer wg.Done()

			if err := s.Publish(ctx, r); err != nil {
				errs <- fmt.Errorf("[%s] %w", name, err)
				return
			}
			log.Printf("[%s] successful publish", name)
		}(name, s)
	}

	wg.Wait()
	close(errs)

	errSlice := []error{}
	for e := range errs {
		errSlice = append(errSlice, e)
	}

	return errors.Join(errSlice...)
}
