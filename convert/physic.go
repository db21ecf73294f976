package convert

import "periph.io/x/conn/v3/physic"

// TemperatureCelsius returns t in degrees Celsius.
func TemperatureCelsius(t physic.Temperature) float64 {
	return t.Celsius()
}

// FromCelsius returns the physic.Temperature for the given degrees Celsius.
func FromCelsius(c float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Celsius))
}

// PressurePascals returns p in Pascals.
func PressurePascals(p physic.Pressure) float64 {
	return float64(p) / float64(physic.Pascal)
}

// FromPascals returns the physic.Pressure for the given number of Pascals.
func FromPascals(pa float64) physic.Pressure {
	return physic.Pressure(pa * float64(physic.Pascal))
}

// DistanceMeters returns d in meters.
func DistanceMeters(d physic.Distance) float64 {
	return float64(d) / float64(physic.Metre)
}
