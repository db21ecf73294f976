package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/mtraver/sensorutils/cache"
	"github.com/mtraver/sensorutils/measurement"
	"github.com/mtraver/sensorutils/sensor"
	"github.com/mtraver/sensorutils/sink"
)

// Cache key under which the latest JSON-encoded report is stored.
const reportKey = "report"

const publishTimeout = 30 * time.Second

// Cron spec for dropping expired reports from the cache.
const cleanSpec = "@every 5m"

type SetupJob struct {
	Sensors []string
}

func (j SetupJob) Run() {
	for _, name := range j.Sensors {
		s, err := sensor.Get(name)
		if err != nil {
			log.Printf("Error getting sensor %q: %v", name, err)
			continue
		}
		if err := s.Init(); err != nil {
			log.Printf("Failed to init %q: %v", name, err)
			continue
		}
	}
}

type SenseJob struct {
	DeviceID string
	Sensors  []string
	Recorder *measurement.Recorder
	Dryrun   bool
}

func (j SenseJob) Run() {
	// Create a Measurement that we'll pass along to each sensor.
	m := measurement.Measurement{
		DeviceID:  j.DeviceID,
		Timestamp: time.Now().UTC(),
	}

	count := 0
	for _, name := range j.Sensors {
		s, err := sensor.Get(name)
		if err != nil {
			log.Printf("Error getting sensor %q: %v", name, err)
			continue
		}
		if err := s.Sense(&m); err != nil {
			log.Printf("Failed to take measurement from %q: %v", name, err)
			continue
		}
		count++
	}

	if count <= 0 {
		log.Print("Took no measurements, will not record")
		return
	}

	if j.Dryrun {
		log.Print(m)
	}
	j.Recorder.Record(m)
}

// makeReport computes a Report of everything recorded so far.
func makeReport(deviceID string, recorder *measurement.Recorder, now time.Time) (sink.Report, error) {
	summaries, err := recorder.Summaries()
	if err != nil {
		return sink.Report{}, err
	}

	return sink.Report{
		DeviceID:  deviceID,
		Timestamp: now,
		Summaries: summaries,
	}, nil
}

// cacheReport stores the JSON encoding of r in c and returns it.
func cacheReport(c *cache.Cache[[]byte], r sink.Report, ttl time.Duration) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	c.Set(reportKey, b, ttl)
	return b, nil
}

type ReportJob struct {
	DeviceID string
	Recorder *measurement.Recorder
	Sink     sink.Sink
	Cache    *cache.Cache[[]byte]
	TTL      time.Duration
}

func (j ReportJob) Run() {
	r, err := makeReport(j.DeviceID, j.Recorder, time.Now().UTC())
	if err != nil {
		log.Printf("Failed to compute statistics: %v", err)
		return
	}

	if len(r.Summaries) == 0 {
		log.Print("Nothing recorded yet, will not publish")
		return
	}

	if _, err := cacheReport(j.Cache, r, j.TTL); err != nil {
		log.Printf("Failed to encode report: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := j.Sink.Publish(ctx, r); err != nil {
		log.Printf("Failed to publish statistics: %v", err)
	}
}

type CleanJob struct {
	Cache *cache.Cache[[]byte]
}

func (j CleanJob) Run() {
	if n := j.Cache.Clean(); n > 0 {
		log.Printf("Removed %d expired reports", n)
	}
}

type ShutdownJob struct {
	Sensors []string
}

func (j ShutdownJob) Run() {
	for _, name := range j.Sensors {
		s, err := sensor.Get(name)
		if err != nil {
			log.Printf("Error getting sensor %q: %v", name, err)
			continue
		}
		if err := s.Shutdown(); err != nil {
			log.Printf("Failed to shut down %q: %v", name, err)
			continue
		}
	}
}
