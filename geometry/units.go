package geometry

import "math"

const (
	EarthMetresPerRadian = 6.3781e6
	EarthMetresPerDegree = EarthMetresPerRadian * math.Pi / 180
)

// MetresToDegrees converts a small distance on the earth surface into decimal degrees. This uses a spherical earth and
// is only accurate for offsets of a few metres, never use it for absolute coordinates.
func MetresToDegrees(metres float64) float64 {
	return metres / EarthMetresPerDegree
}

// MeanAngle computes the circular mean of the given angles in radians. The result is within [-π, π] and NaN for no
// angles.
func MeanAngle(angles []float64) float64 {
	if len(angles) == 0 {
		return math.NaN()
	}

	var sinSum, cosSum float64
	for _, angle := range angles {
		sinSum += math.Sin(angle)
		cosSum += math.Cos(angle)
	}

	n := float64(len(angles))
	return math.Atan2(sinSum/n, cosSum/n)
}
