// Package measurement defines a multi-metric sensor reading and summary
// statistics over collections of readings.
package measurement

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mtraver/sensorutils/convert"
)

// Metric names. These are the keys of ValueMap.
const (
	Temp     = "temp"
	RH       = "rh"
	Pressure = "pressure"
	Dewpoint = "dewpoint"
	Altitude = "altitude"
)

// Metric describes a quantity that may appear in a Measurement.
type Metric struct {
	Name  string
	Abbrv string
	Unit  string
	// Derived metrics are computed from other metrics rather than sensed.
	Derived bool
}

var metrics = map[string]Metric{
	Temp:     {Name: Temp, Abbrv: "t", Unit: "°C"},
	RH:       {Name: RH, Abbrv: "rh", Unit: "%"},
	Pressure: {Name: Pressure, Abbrv: "p", Unit: "Pa"},
	Dewpoint: {Name: Dewpoint, Abbrv: "dp", Unit: "°C", Derived: true},
	Altitude: {Name: Altitude, Abbrv: "alt", Unit: "m", Derived: true},
}

// GetMetric returns the Metric with the given name.
func GetMetric(name string) (Metric, bool) {
	m, ok := metrics[name]
	return m, ok
}

// Measurement is a set of readings taken by one device at one time. A nil
// field means the quantity was not measured.
type Measurement struct {
	DeviceID  string    `json:"device_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Degrees Celsius.
	Temp *float64 `json:"temp,omitempty"`
	// Relative humidity, percent.
	RH *float64 `json:"rh,omitempty"`
	// Pascals.
	Pressure *float64 `json:"pressure,omitempty"`
}

// ValueMap returns the values present in the Measurement keyed by metric name,
// including derived metrics whose inputs are present. Altitude assumes
// standard sea level pressure.
func (m Measurement) ValueMap() map[string]float64 {
	vals := make(map[string]float64)
	if m.Temp != nil {
		vals[Temp] = *m.Temp
	}
	if m.RH != nil {
		vals[RH] = *m.RH
	}
	if m.Pressure != nil {
		vals[Pressure] = *m.Pressure
		vals[Altitude] = convert.Altitude(*m.Pressure, convert.StandardPressure)
	}
	if m.Temp != nil && m.RH != nil {
		vals[Dewpoint] = convert.Dewpoint(*m.Temp, *m.RH)
	}

	return vals
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Measurement) String() string {
	vals := m.ValueMap()

	var parts []string
	for _, k := range sortedKeys(vals) {
		metric := metrics[k]
		if metric.Derived {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.3f%s", k, vals[k], metric.Unit))
	}

	valStr := "[no measurements]"
	if len(parts) > 0 {
		valStr = strings.Join(parts, " ")
	}

	return fmt.Sprintf("%s %s %s", m.DeviceID, valStr, m.Timestamp.Format(time.RFC3339))
}
