package measurement

import (
	"encoding/json"

	"github.com/mtraver/sensorutils/stats"
)

// Summarize returns summary statistics for each metric that appears in at
// least one of the given measurements.
func Summarize(measurements []Measurement) map[string]stats.Summary {
	accs := make(map[string]*stats.Accumulator)
	for _, m := range measurements {
		for k, v := range m.ValueMap() {
			acc, ok := accs[k]
			if !ok {
				acc = stats.New(len(measurements))
				accs[k] = acc
			}
			acc.Add(v)
		}
	}

	summaries := make(map[string]stats.Summary, len(accs))
	for k, acc := range accs {
		// Every accumulator here holds at least one sample.
		acc.Compute()
		summaries[k] = acc.Summary()
		acc.Close()
	}

	return summaries
}

// SummaryMapToJSON converts a metric name -> Summary map into a marshaled JSON
// array, sorted by metric name so that the output is stable.
func SummaryMapToJSON(summaries map[string]stats.Summary) ([]byte, error) {
	type metricSummary struct {
		Metric string        `json:"metric"`
		Unit   string        `json:"unit,omitempty"`
		Stats  stats.Summary `json:"stats"`
	}

	data := make([]metricSummary, 0, len(summaries))
	for _, k := range sortedKeys(summaries) {
		data = append(data, metricSummary{
			Metric: k,
			Unit:   metrics[k].Unit,
			Stats:  summaries[k],
		})
	}
	return json.Marshal(data)
}
