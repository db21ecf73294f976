// Package dummy provides a Sensor that reports synthetic readings scattered
// around fixed baselines. It touches no hardware.
package dummy

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/mtraver/sensorutils/convert"
	"github.com/mtraver/sensorutils/measurement"
	"periph.io/x/conn/v3/physic"
)

type Dummy struct {
	Temp     physic.Temperature
	RH       float64
	Pressure physic.Pressure
	// Noise is the standard deviation of the normal noise added to each
	// reading, as a fraction of the baseline.
	Noise float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Dummy with indoor baselines whose noise is drawn from a
// source seeded with seed.
func New(seed int64) *Dummy {
	return &Dummy{
		Temp:     convert.FromCelsius(21),
		RH:       45,
		Pressure: convert.FromPascals(101325),
		Noise:    0.01,
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

func (d *Dummy) Init() error {
	log.Printf("DUMMY SENSOR INIT")
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rnd == nil {
		d.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return nil
}

func (d *Dummy) jitter(v float64) float64 {
	if d.rnd == nil {
		return v
	}
	return v + d.rnd.NormFloat64()*d.Noise*v
}

func (d *Dummy) Sense(m *measurement.Measurement) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	temp := d.jitter(convert.TemperatureCelsius(d.Temp))
	rh := d.jitter(d.RH)
	pressure := d.jitter(convert.PressurePascals(d.Pressure))

	m.Temp = &temp
	m.RH = &rh
	m.Pressure = &pressure
	return nil
}

func (d *Dummy) Shutdown() error {
	log.Printf("DUMMY SENSOR SHUTDOWN")
	return nil
}
