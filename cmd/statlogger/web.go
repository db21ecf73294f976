package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mtraver/sensorutils/cache"
	"github.com/mtraver/sensorutils/measurement"
)

type indexHandler struct {
	deviceID string
	recorder *measurement.Recorder
}

func (h indexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The pattern "/" matches all paths not matched by other registered patterns.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fmt.Fprintf(w, "device: %s\n", h.deviceID)
	for _, name := range h.recorder.Metrics() {
		unit := ""
		if metric, ok := measurement.GetMetric(name); ok {
			unit = metric.Unit
		}
		fmt.Fprintf(w, "%s (%s)\n", name, unit)
	}
}

// statsHandler serves the latest report as JSON, computing a fresh one if
// the cached report has expired.
type statsHandler struct {
	deviceID string
	recorder *measurement.Recorder
	cache    *cache.Cache[[]byte]
	ttl      time.Duration
}

func (h statsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, ok := h.cache.Get(reportKey)
	if !ok {
		report, err := makeReport(h.deviceID, h.recorder, time.Now().UTC())
		if err != nil {
			log.Printf("Failed to compute statistics: %v", err)
			http.Error(w, "failed to compute statistics", http.StatusInternalServerError)
			return
		}

		if b, err = cacheReport(h.cache, report, h.ttl); err != nil {
			log.Printf("Failed to encode report: %v", err)
			http.Error(w, "failed to encode statistics", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
