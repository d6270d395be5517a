package carver

import "math"

const sinScale = 10430.378350470453

// sinTable holds one full turn of sine values at float precision. Tunnel
// headings are always taken from the table, never from math.Sin.
var sinTable = func() (t [65536]float32) {
	for i := range t {
		t[i] = float32(math.Sin(float64(i) * math.Pi * 2 / 65536))
	}
	return t
}()

func sin(v float64) float32 {
	return sinTable[int64(v*sinScale)&0xFFFF]
}

func cos(v float64) float32 {
	return sinTable[int64(float64(v*sinScale)+16384)&0xFFFF]
}
