package sink

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/mtraver/sensorutils/measurement"
	"github.com/mtraver/sensorutils/stats"
)

var (
	testTimestamp = time.Date(2018, time.March, 25, 0, 0, 0, 0, time.UTC)

	testReport = Report{
		DeviceID:  "foo",
		Timestamp: testTimestamp,
		Summaries: map[string]stats.Summary{
			measurement.Temp: {Count: 2, Capacity: 2, Sum: 37, Mean: 18.5, Min: 18, Max: 19, Variance: 0.25, StdDev: 0.5, SampleVariance: 0.5},
			measurement.RH:   {Count: 1, Capacity: 1, Sum: 55, Mean: 55, Min: 55, Max: 55},
		},
	}
)

func TestNewInfluxDBPoints(t *testing.T) {
	cases := []struct {
		name string
		r    Report
		want []*write.Point
	}{
		{
			name: "empty",
			r:    Report{DeviceID: "foo", Timestamp: testTimestamp},
			want: []*write.Point{},
		},
		{
			name: "many",
			r:    testReport,
			want: []*write.Point{
				influxdb2.NewPointWithMeasurement("summary").AddTag("device", "foo").AddTag("metric", "rh").
					AddField("count", 1).AddField("mean", 55.0).AddField("min", 55.0).AddField("max", 55.0).
					AddField("variance", 0.0).AddField("stddev", 0.0).SetTime(testTimestamp),
				influxdb2.NewPointWithMeasurement("summary").AddTag("device", "foo").AddTag("metric", "t").
					AddField("count", 2).AddField("mean", 18.5).AddField("min", 18.0).AddField("max", 19.0).
					AddField("variance", 0.25).AddField("stddev", 0.5).SetTime(testTimestamp),
			},
		},
		{
			name: "non_finite_and_unknown_metric",
			r: Report{
				DeviceID:  "bar",
				Timestamp: testTimestamp,
				Summaries: map[string]stats.Summary{
					"PM2.5": {Count: 1, Mean: math.NaN(), Min: 3, Max: math.Inf(1)},
				},
			},
			want: []*write.Point{
				influxdb2.NewPointWithMeasurement("summary").AddTag("device", "bar").AddTag("metric", "PM2.5").
					AddField("count", 1).AddField("min", 3.0).
					AddField("variance", 0.0).AddField("stddev", 0.0).SetTime(testTimestamp),
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := newInfluxDBPoints(c.r)
			if diff := cmp.Diff(got, c.want, cmp.AllowUnexported(write.Point{})); diff != "" {
				t.Errorf("Unexpected result (-got +want):\n%s", diff)
			}
		})
	}
}

func TestReportMarshalJSON(t *testing.T) {
	b, err := json.Marshal(testReport)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var got struct {
		DeviceID  string    `json:"device_id"`
		Timestamp time.Time `json:"timestamp"`
		Metrics   []struct {
			Metric string        `json:"metric"`
			Stats  stats.Summary `json:"stats"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.DeviceID != "foo" || !got.Timestamp.Equal(testTimestamp) {
		t.Errorf("got device %q at %v", got.DeviceID, got.Timestamp)
	}
	if len(got.Metrics) != 2 || got.Metrics[1].Metric != measurement.Temp {
		t.Fatalf("got metrics %+v, want rh and temp", got.Metrics)
	}
	if diff := cmp.Diff(got.Metrics[1].Stats, testReport.Summaries[measurement.Temp]); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}
}

type recordingSink struct {
	got []Report
	err error
}

func (s *recordingSink) Publish(ctx context.Context, r Report) error {
	s.got = append(s.got, r)
	return s.err
}

func TestMulti(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("boom")}
	m := Multi{
		"ok":  ok,
		"bad": bad,
		"log": Log{},
	}

	err := m.Publish(context.Background(), testReport)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "[bad] boom") {
		t.Errorf("got error %q, want it to mention the failing sink", err)
	}

	for name, s := range map[string]*recordingSink{"ok": ok, "bad": bad} {
		if len(s.got) != 1 || s.got[0].DeviceID != "foo" {
			t.Errorf("sink %q got %+v, want one report", name, s.got)
		}
	}

	if err := (Multi{"ok": ok}).Publish(context.Background(), testReport); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
