package l2frames

import (
	"time"

	"github.com/banshee-data/ldmrs/internal/lidar"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
)

// Assembler demultiplexes decoded point records into per-layer scans.
// Layer elevations are fixed at construction and never read from the wire.
type Assembler struct {
	elevations [NumLayers]float64 // radians
}

// NewAssembler creates an assembler for the given layer elevations in degrees.
func NewAssembler(elevationsDeg [NumLayers]float64) *Assembler {
	a := &Assembler{}
	for i, deg := range elevationsDeg {
		a.elevations[i] = lidar.DegToRad(deg)
	}
	return a
}

// Elevation returns the vertical angle of a layer in radians.
func (a *Assembler) Elevation(layer int) float64 {
	return a.elevations[layer]
}

// Assemble clears all four scans, stamps the shared revolution metadata on
// each, then appends every first-echo record to its layer in wire order.
// It returns the number of points retained. Records must already have been
// validated (layer <= 3, non-zero step count when points are present).
func (a *Assembler) Assemble(msg *parse.ScanMessage, start, end time.Time, scans *[NumLayers]LaserScan) int {
	for i := range scans {
		s := &scans[i]
		s.Clear()
		s.MeasurementID = msg.MeasurementID
		s.StartTimestamp = start
		s.EndTimestamp = end
		s.NumSteps = msg.NumSteps
		s.StartAngle = msg.StartAngle
		s.StopAngle = msg.StopAngle
		s.NumPoints = msg.NumPoints
	}

	retained := 0
	for _, rec := range msg.Points {
		// Later echoes of the same shot are not modeled.
		if rec.Echo != 0 {
			continue
		}
		scans[rec.Layer].AddPoint(ScanPoint{
			Range:      float64(rec.Distance) / parse.CentimetersPerMeter,
			HAngle:     lidar.StepsToRadians(rec.AngleStep, msg.NumSteps),
			VAngle:     a.elevations[rec.Layer],
			Flags:      rec.Flags,
			PulseWidth: rec.PulseWidth,
		})
		retained++
	}
	return retained
}
