package lidar

import "math"

// SphericalToCartesian converts range (meters), horizontal angle (radians)
// and vertical angle (radians) into sensor-frame coordinates.
// Coordinate convention: X=forward, Y=left, Z=up.
func SphericalToCartesian(rangeM, hAngle, vAngle float64) (x, y, z float64) {
	cosV := math.Cos(vAngle)
	x = rangeM * cosV * math.Cos(hAngle)
	y = rangeM * cosV * math.Sin(hAngle)
	z = rangeM * math.Sin(vAngle)
	return
}

// StepsToRadians converts an angle expressed in device steps into radians,
// given the number of steps in one full revolution. Zero steps per
// revolution yields zero.
func StepsToRadians(steps int16, stepsPerRev uint16) float64 {
	if stepsPerRev == 0 {
		return 0
	}
	return (2 * math.Pi / float64(stepsPerRev)) * float64(steps)
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
