package math

import gomath "math"

// SpiralSamples is the size of the Fibonacci spiral direction table.
const SpiralSamples = 64

// goldenAngle is pi*(3-sqrt(5)), about 2.39996 radians.
var goldenAngle = gomath.Pi * (3 - gomath.Sqrt(5))

var spiral = func() [SpiralSamples]Vec2 {
	var dirs [SpiralSamples]Vec2
	for i := range dirs {
		s, c := gomath.Sincos(float64(i) * goldenAngle)
		dirs[i] = Vec2{c, s}
	}
	return dirs
}()

// SpiralDir returns the unit direction of the i-th spiral sample.
func SpiralDir(i int) Vec2 {
	return spiral[i%SpiralSamples]
}

// SpiralOffset returns the i-th of n disk samples. The distance from the
// centre is (i/n)^(0.5*clump), so clump > 1 pulls samples toward the rim.
func SpiralOffset(i, n int, clump float64) Vec2 {
	r := gomath.Pow(float64(i)/float64(n), 0.5*clump)
	return SpiralDir(i).Mul(r)
}
