// Program statlogger takes readings from a set of sensors on a schedule,
// accumulates them, and periodically publishes summary statistics of
// everything read so far to InfluxDB and/or an MQTT broker.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/mtraver/envtools"
	cron "github.com/robfig/cron/v3"

	"github.com/mtraver/sensorutils/cache"
	"github.com/mtraver/sensorutils/measurement"
	"github.com/mtraver/sensorutils/sensor"
	"github.com/mtraver/sensorutils/sensor/dummy"
	"github.com/mtraver/sensorutils/sink"
)

// Flags.
var (
	deviceID     string
	sensorNames  string
	sampleSpec   string
	reportSpec   string
	port         int
	capacity     int
	cacheTTL     time.Duration
	influxURL    string
	influxOrg    string
	influxBucket string
	mqttBroker   string
	mqttTopic    string
	dryrun       bool
)

var (
	// This directory is where we'll store anything the program needs to persist.
	// It's joined with the user's home directory in init.
	dotDir = ".statlogger"

	// Reports that have not been acknowledged by the MQTT broker are kept here.
	mqttStoreDir = path.Join(dotDir, "mqtt_store")
)

func init() {
	flag.StringVar(&deviceID, "device", "", "ID of this device, used to tag published statistics")
	flag.StringVar(&sensorNames, "sensors", "dummy", "comma-separated names of the sensors to read")
	flag.StringVar(&sampleSpec, "samplespec", "@every 10s", "cron spec that specifies when to take measurements")
	flag.StringVar(&reportSpec, "reportspec", "@every 1m", "cron spec that specifies when to compute and publish statistics")
	flag.IntVar(&port, "port", 8080, "port on which the device's web server should listen")
	flag.IntVar(&capacity, "capacity", 64, "initial number of samples each metric's accumulator can hold")
	flag.DurationVar(&cacheTTL, "cachettl", time.Minute, "how long the web server may serve a computed report")
	flag.StringVar(&influxURL, "influx", "", "InfluxDB server URL. The token is read from INFLUXDB_TOKEN.")
	flag.StringVar(&influxOrg, "influxorg", "", "InfluxDB organization")
	flag.StringVar(&influxBucket, "influxbucket", "sensors", "InfluxDB bucket")
	flag.StringVar(&mqttBroker, "mqtt", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	flag.StringVar(&mqttTopic, "mqtttopic", "", "MQTT topic to publish statistics to (default sensors/<device>/stats)")
	flag.BoolVar(&dryrun, "dryrun", false, "set to true to log readings and statistics")
}

// makeDirs joins the program's directories to the user's home directory and creates them.
func makeDirs() error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("failed to get home dir: %v", err)
	}
	dotDir = path.Join(home, dotDir)
	mqttStoreDir = path.Join(home, mqttStoreDir)

	for _, dir := range []string{dotDir, mqttStoreDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to make dir %s: %v", dir, err)
		}
	}

	return nil
}

func parseFlags() error {
	flag.Parse()

	if deviceID == "" {
		return fmt.Errorf("device flag must be given")
	}

	if sensorNames == "" {
		return fmt.Errorf("sensors flag must be given")
	}

	if capacity < 0 {
		return fmt.Errorf("capacity must be non-negative")
	}

	if influxURL != "" && influxOrg == "" {
		return fmt.Errorf("influxorg flag must be given with influx")
	}

	if mqttTopic == "" {
		mqttTopic = fmt.Sprintf("sensors/%s/stats", deviceID)
	}

	return nil
}

func main() {
	if err := parseFlags(); err != nil {
		fmt.Printf("argument error: %v\n", err)
		os.Exit(2)
	}

	if err := makeDirs(); err != nil {
		log.Fatal(err)
	}

	sensor.Register("dummy", dummy.New(time.Now().UnixNano()))
	sensors := strings.Split(sensorNames, ",")

	recorder := measurement.NewRecorder(capacity)
	reports := cache.New[[]byte]()

	var cleanup []func()
	sinks := sink.Multi{}
	if dryrun {
		sinks["log"] = sink.Log{}
	}
	if influxURL != "" {
		db := sink.NewInfluxDB(influxURL, envtools.MustGetenv("INFLUXDB_TOKEN"), influxOrg, influxBucket)
		cleanup = append(cleanup, db.Close)
		sinks["influxdb"] = db
	}
	if mqttBroker != "" {
		client, err := sink.Connect(mqttBroker, deviceID, mqttStoreDir)
		if err != nil {
			log.Fatal(err)
		}
		cleanup = append(cleanup, func() { client.Disconnect(250) })
		sinks["mqtt"] = sink.MQTT{Client: client, Topic: mqttTopic, QoS: 1}
	}

	SetupJob{Sensors: sensors}.Run()

	cr := cron.New()
	log.Printf("Sampling with spec %q, reporting with spec %q", sampleSpec, reportSpec)
	if _, err := cr.AddJob(sampleSpec, SenseJob{
		DeviceID: deviceID,
		Sensors:  sensors,
		Recorder: recorder,
		Dryrun:   dryrun,
	}); err != nil {
		log.Fatalf("Bad sample spec: %v", err)
	}
	if _, err := cr.AddJob(reportSpec, ReportJob{
		DeviceID: deviceID,
		Recorder: recorder,
		Sink:     sinks,
		Cache:    reports,
		TTL:      cacheTTL,
	}); err != nil {
		log.Fatalf("Bad report spec: %v", err)
	}
	if _, err := cr.AddJob(cleanSpec, CleanJob{Cache: reports}); err != nil {
		log.Fatalf("Bad cache clean spec: %v", err)
	}
	cr.Start()

	// If the program is killed, stop scheduling, shut down sensors, and disconnect.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Cleaning up...")
		<-cr.Stop().Done()
		ShutdownJob{Sensors: sensors}.Run()
		for _, f := range cleanup {
			f()
		}
		recorder.Close()
		os.Exit(1)
	}()

	// Start up a web server that provides basic info about the device.
	http.Handle("/", indexHandler{
		deviceID: deviceID,
		recorder: recorder,
	})
	http.Handle("/stats", statsHandler{
		deviceID: deviceID,
		recorder: recorder,
		cache:    reports,
		ttl:      cacheTTL,
	})
	if err := http.ListenAndServe(fmt.Sprintf(":%v", port), nil); err != nil {
		log.Fatal(err)
	}
}
