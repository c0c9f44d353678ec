package lidar

import "time"

// NumLayers is the number of vertical scanning planes reported per revolution.
const NumLayers = 4

// DefaultLayerElevationsDeg are the fixed elevation angles of the four
// layers, bottom to top, in degrees.
var DefaultLayerElevationsDeg = [NumLayers]float64{-1.2, -0.4, 0.4, 1.2}

// ScanPoint is a single first-echo return in polar terms.
type ScanPoint struct {
	Range      float64 // meters
	HAngle     float64 // horizontal angle, radians
	VAngle     float64 // vertical angle, radians (fixed per layer)
	Flags      uint8   // raw point flags byte
	PulseWidth uint16  // echo pulse width in centimeters
}

// Cartesian returns the point in sensor-frame coordinates.
func (p ScanPoint) Cartesian() (x, y, z float64) {
	return SphericalToCartesian(p.Range, p.HAngle, p.VAngle)
}

// LaserScan holds the points of one layer for one revolution, together with
// the per-revolution metadata shared by all layers.
type LaserScan struct {
	MeasurementID  uint16
	StartTimestamp time.Time // host-synchronized
	EndTimestamp   time.Time // host-synchronized
	NumSteps       uint16    // steps per full revolution
	StartAngle     int16     // device steps
	StopAngle      int16     // device steps
	NumPoints      uint16    // points declared for the whole revolution, all layers and echoes
	Points         []ScanPoint
}

// Clear drops all points but keeps the backing array for reuse.
func (s *LaserScan) Clear() {
	s.Points = s.Points[:0]
}

// AddPoint appends a point in wire order.
func (s *LaserScan) AddPoint(p ScanPoint) {
	s.Points = append(s.Points, p)
}

// StartAngleRad returns the start angle in radians.
func (s *LaserScan) StartAngleRad() float64 {
	return StepsToRadians(s.StartAngle, s.NumSteps)
}

// StopAngleRad returns the stop angle in radians.
func (s *LaserScan) StopAngleRad() float64 {
	return StepsToRadians(s.StopAngle, s.NumSteps)
}

// Duration returns the time the device took to sweep this revolution.
func (s *LaserScan) Duration() time.Duration {
	return s.EndTimestamp.Sub(s.StartTimestamp)
}

// TotalPoints sums the retained points across a set of layer scans.
func TotalPoints(scans *[NumLayers]LaserScan) int {
	n := 0
	for i := range scans {
		n += len(scans[i].Points)
	}
	return n
}
