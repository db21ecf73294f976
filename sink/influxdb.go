package sink

import (
	"context"
	"math"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/mtraver/sensorutils/measurement"
)

const influxMeasurement = "summary"

func addFloat(p *write.Point, key string, v float64) *write.Point {
	// Line protocol has no representation for NaN or ±Inf.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return p
	}
	return p.AddField(key, v)
}

// newInfluxDBPoints makes one point per metric, ordered by metric name.
func newInfluxDBPoints(r Report) []*write.Point {
	points := make([]*write.Point, 0, len(r.Summaries))
	for _, name := range r.metricNames() {
		s := r.Summaries[name]

		tag := name
		if metric, ok := measurement.GetMetric(name); ok {
			tag = metric.Abbrv
		}

		p := influxdb2.NewPointWithMeasurement(influxMeasurement).
			AddTag("device", r.DeviceID).
			AddTag("metric", tag).
			AddField("count", s.Count)
		p = addFloat(p, "mean", s.Mean)
		p = addFloat(p, "min", s.Min)
		p = addFloat(p, "max", s.Max)
		p = addFloat(p, "variance", s.Variance)
		p = addFloat(p, "stddev", s.StdDev)

		points = append(points, p.SetTime(r.Timestamp))
	}

	return points
}

type InfluxDB struct {
	client influxdb2.Client
	org    string
	bucket string
}

func NewInfluxDB(serverURL, token, org, bucket string) *InfluxDB {
	return &InfluxDB{
		client: influxdb2.NewClient(serverURL, token),
		org:    org,
		bucket: bucket,
	}
}

func (db *InfluxDB) Publish(ctx context.Context, r Report) error {
	if len(r.Summaries) == 0 {
		return nil
	}

	writeAPI := db.client.WriteAPIBlocking(db.org, db.bucket)
	return writeAPI.WritePoint(ctx, newInfluxDBPoints(r)...)
}

func (db *InfluxDB) Close() {
	db.client.Close()
}
