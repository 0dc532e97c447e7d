package utils

import (
	"math"
	"math/rand"
)

func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// DegreesToVector converts an aim angle (degrees, 90 = straight up) into a
// unit direction vector in screen coordinates (y grows downward).
func DegreesToVector(angle float64) (dx, dy float64) {
	radians := angle * math.Pi / 180
	return math.Cos(radians), -math.Sin(radians)
}

func Distance(x1, y1, x2, y2 float64) float64 {
	deltaX := x2 - x1
	deltaY := y2 - y1
	return math.Sqrt(deltaX*deltaX + deltaY*deltaY)
}

// RandomColor rolls a color index from the first unlockedColors palette entries.
func RandomColor(unlockedColors int) int {
	if unlockedColors < 1 {
		unlockedColors = 1
	}
	if unlockedColors > MaxColors {
		unlockedColors = MaxColors
	}
	return rand.Intn(unlockedColors)
}
