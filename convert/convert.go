// Package convert provides conversions between common units of temperature,
// pressure and length, and computes quantities derived from sensor readings
// such as dewpoint and barometric altitude.
//
// All functions are pure. Out-of-domain input (e.g. a negative pressure fed to
// Altitude) is not an error; the result is NaN or ±Inf and callers must check
// for that themselves.
package convert

import "math"

const (
	// StandardPressure is one standard atmosphere in Pascals.
	StandardPressure = 101325.0

	pascalsPerInchHg = 3386.389
	inchesHgPerAtm   = 29.9213
	mmHgPerAtm       = 760.0
	feetPerMeter     = 3.28084
)

// Constants for the Magnus-form dewpoint approximation, valid roughly
// between 1°C and 100°C.
const (
	magnusA = 8.1332
	magnusB = 1763.39
	magnusC = 235.66
)

// Exponent of the international barometric formula.
const altitudeExponent = 0.190294957

// Fahrenheit converts a temperature in degrees Celsius to degrees Fahrenheit.
func Fahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// Celsius converts a temperature in degrees Fahrenheit to degrees Celsius.
func Celsius(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}

// InchesHg converts a pressure in Pascals to inches of mercury.
func InchesHg(pascals float64) float64 {
	return pascals / pascalsPerInchHg
}

// MmHg converts a pressure in Pascals to millimeters of mercury.
func MmHg(pascals float64) float64 {
	return pascals * mmHgPerAtm / StandardPressure
}

// AtmospheresHg converts a pressure in inches of mercury to atmospheres.
func AtmospheresHg(inchesHg float64) float64 {
	return inchesHg / inchesHgPerAtm
}

// AtmospheresP converts a pressure in Pascals to atmospheres.
func AtmospheresP(pascals float64) float64 {
	return pascals / StandardPressure
}

// LengthF converts a length in meters to feet.
func LengthF(meters float64) float64 {
	return meters * feetPerMeter
}

// Dewpoint returns the dewpoint in degrees Celsius for the given temperature
// in degrees Celsius and relative humidity in percent (0-100).
func Dewpoint(temp, rh float64) float64 {
	pp := math.Pow(10, magnusA-magnusB/(temp+magnusC))
	denom := math.Log10(rh*pp/100) - magnusA
	return -(magnusB/denom + magnusC)
}

// Altitude returns the altitude in meters implied by the given pressure and
// sea level pressure. Only the ratio of the two is used, so any unit works as
// long as both are in the same one. A non-positive seaLevel is replaced with
// StandardPressure, which assumes both values are in Pascals.
func Altitude(pressure, seaLevel float64) float64 {
	if seaLevel <= 0 {
		seaLevel = StandardPressure
	}
	return 44330 * (1 - math.Pow(pressure/seaLevel, altitudeExponent))
}
