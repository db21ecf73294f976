package stats

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a set of samples.
//
// Variance is the population variance: the mean squared deviation from Mean.
// SampleVariance applies Bessel's correction and is 0 for fewer than two samples.
type Summary struct {
	Count int
	// Capacity is the buffer size of the Accumulator at the time of computation.
	// It is 0 for a Summary not produced by an Accumulator.
	Capacity       int
	Sum            float64
	Mean           float64
	Min            float64
	Max            float64
	Variance       float64
	StdDev         float64
	SampleVariance float64
}

// Summarize computes a Summary of values. The order of values does not matter.
// It returns the zero Summary and ErrEmptyDataset if values is empty.
func Summarize(values []float64) (Summary, error) {
	n := len(values)
	if n == 0 {
		return Summary{}, ErrEmptyDataset
	}

	mean, variance := popMeanVariance(values)
	if variance < 0 {
		variance = 0
	}

	s := Summary{
		Count:    n,
		Sum:      floats.Sum(values),
		Mean:     mean,
		Min:      floats.Min(values),
		Max:      floats.Max(values),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
	if n > 1 {
		s.SampleVariance = variance * float64(n) / float64(n-1)
	}

	return s, nil
}

// popMeanVariance is stat.PopMeanVariance, computed on values divided by
// their largest magnitude when the sum or the squared deviations could
// overflow. Mean and Variance then stay finite for finite samples unless the
// true variance itself exceeds the float64 range.
func popMeanVariance(values []float64) (mean, variance float64) {
	m := floats.Norm(values, math.Inf(1))
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= math.Sqrt(math.MaxFloat64/float64(len(values))) {
		return stat.PopMeanVariance(values, nil)
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / m
	}
	mean, variance = stat.PopMeanVariance(scaled, nil)
	return mean * m, variance * m * m
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f sd=%.4f min=%.4f max=%.4f", s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}

// summaryJSON is the wire form of Summary. JSON has no encoding for NaN or
// ±Inf, so non-finite values are written as null.
type summaryJSON struct {
	Count          int      `json:"count"`
	Capacity       int      `json:"capacity"`
	Sum            *float64 `json:"sum"`
	Mean           *float64 `json:"mean"`
	Min            *float64 `json:"min"`
	Max            *float64 `json:"max"`
	Variance       *float64 `json:"variance"`
	StdDev         *float64 `json:"standardDeviation"`
	SampleVariance *float64 `json:"sampleVariance"`
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func value(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}

// MarshalJSON implements json.Marshaler.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		Count:          s.Count,
		Capacity:       s.Capacity,
		Sum:            finite(s.Sum),
		Mean:           finite(s.Mean),
		Min:            finite(s.Min),
		Max:            finite(s.Max),
		Variance:       finite(s.Variance),
		StdDev:         finite(s.StdDev),
		SampleVariance: finite(s.SampleVariance),
	})
}

// UnmarshalJSON implements json.Unmarshaler. A null value decodes as NaN.
func (s *Summary) UnmarshalJSON(b []byte) error {
	var sj summaryJSON
	if err := json.Unmarshal(b, &sj); err != nil {
		return err
	}

	*s = Summary{
		Count:          sj.Count,
		Capacity:       sj.Capacity,
		Sum:            value(sj.Sum),
		Mean:           value(sj.Mean),
		Min:            value(sj.Min),
		Max:            value(sj.Max),
		Variance:       value(sj.Variance),
		StdDev:         value(sj.StdDev),
		SampleVariance: value(sj.SampleVariance),
	}
	return nil
}
