package lidar

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func TestSphericalToCartesian(t *testing.T) {
	tests := []struct {
		name                string
		r, h, v             float64
		wantX, wantY, wantZ float64
	}{
		{"forward", 10, 0, 0, 10, 0, 0},
		{"left", 10, math.Pi / 2, 0, 0, 10, 0},
		{"right", 10, -math.Pi / 2, 0, 0, -10, 0},
		{"up", 10, 0, math.Pi / 2, 0, 0, 10},
		{"zero range", 0, 1, 0.3, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := SphericalToCartesian(tt.r, tt.h, tt.v)
			if math.Abs(x-tt.wantX) > eps || math.Abs(y-tt.wantY) > eps || math.Abs(z-tt.wantZ) > eps {
				t.Errorf("got (%f, %f, %f), want (%f, %f, %f)", x, y, z, tt.wantX, tt.wantY, tt.wantZ)
			}
		})
	}
}

func TestStepsToRadians(t *testing.T) {
	if got := StepsToRadians(2500, 10000); math.Abs(got-math.Pi/2) > eps {
		t.Errorf("StepsToRadians(2500, 10000) = %f, want pi/2", got)
	}
	if got := StepsToRadians(-1600, 11520); math.Abs(got+1600*2*math.Pi/11520) > eps {
		t.Errorf("StepsToRadians(-1600, 11520) = %f", got)
	}
	if got := StepsToRadians(0, 10000); got != 0 {
		t.Errorf("StepsToRadians(0, 10000) = %f, want 0", got)
	}
	if got := StepsToRadians(100, 0); got != 0 {
		t.Errorf("StepsToRadians with zero steps per revolution = %f, want 0", got)
	}
}

func TestDegToRad(t *testing.T) {
	if got := DegToRad(180); math.Abs(got-math.Pi) > eps {
		t.Errorf("DegToRad(180) = %f", got)
	}
	if got := DegToRad(-1.2); math.Abs(got+0.020943951023931952) > eps {
		t.Errorf("DegToRad(-1.2) = %f", got)
	}
}

func TestScanPointCartesian(t *testing.T) {
	p := ScanPoint{Range: 5, HAngle: 0, VAngle: DegToRad(1.2)}
	x, y, z := p.Cartesian()
	if math.Abs(x-5*math.Cos(DegToRad(1.2))) > eps || y != 0 || math.Abs(z-5*math.Sin(DegToRad(1.2))) > eps {
		t.Errorf("Cartesian() = (%f, %f, %f)", x, y, z)
	}
}

func TestLaserScan(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := LaserScan{
		StartTimestamp: start,
		EndTimestamp:   start.Add(80 * time.Millisecond),
		NumSteps:       11520,
		StartAngle:     1600,
		StopAngle:      -1920,
	}
	s.AddPoint(ScanPoint{Range: 1})
	s.AddPoint(ScanPoint{Range: 2})

	if len(s.Points) != 2 || s.Points[1].Range != 2 {
		t.Fatalf("AddPoint did not append in order: %+v", s.Points)
	}
	if got := s.Duration(); got != 80*time.Millisecond {
		t.Errorf("Duration() = %v", got)
	}
	if got := s.StartAngleRad(); math.Abs(got-1600*2*math.Pi/11520) > eps {
		t.Errorf("StartAngleRad() = %f", got)
	}
	if got := s.StopAngleRad(); got >= 0 {
		t.Errorf("StopAngleRad() = %f, want negative", got)
	}

	backing := cap(s.Points)
	s.Clear()
	if len(s.Points) != 0 || cap(s.Points) != backing {
		t.Errorf("Clear() len=%d cap=%d, want 0 and %d", len(s.Points), cap(s.Points), backing)
	}
}

func TestTotalPoints(t *testing.T) {
	var scans [NumLayers]LaserScan
	if got := TotalPoints(&scans); got != 0 {
		t.Errorf("TotalPoints(empty) = %d", got)
	}
	scans[0].AddPoint(ScanPoint{})
	scans[3].AddPoint(ScanPoint{})
	scans[3].AddPoint(ScanPoint{})
	if got := TotalPoints(&scans); got != 3 {
		t.Errorf("TotalPoints = %d, want 3", got)
	}
}
