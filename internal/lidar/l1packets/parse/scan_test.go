package parse

import (
	"errors"
	"testing"
)

func testScanMessage(points ...PointRecord) *ScanMessage {
	return &ScanMessage{
		MeasurementID: 42,
		ScannerStatus: 0x0001,
		StartTime:     NTPTime{Seconds: 100, Fraction: 0},
		EndTime:       NTPTime{Seconds: 100, Fraction: 1 << 31},
		NumSteps:      11520,
		StartAngle:    1600,
		StopAngle:     -1920,
		NumPoints:     uint16(len(points)),
		Mounting:      MountingPosition{Yaw: -3, Z: 150},
		Flags:         0x0400,
		Points:        points,
	}
}

func TestDecodeScan_Prefix(t *testing.T) {
	in := testScanMessage(PointRecord{Layer: 1, Distance: 100})
	body := EncodeScan(nil, in)
	if len(body) != ScanPrefixSize+PointRecordSize {
		t.Fatalf("encoded length = %d", len(body))
	}

	// Body fields are little-endian.
	if body[0] != 42 || body[1] != 0 {
		t.Fatalf("measurement id bytes = % X", body[0:2])
	}

	var out ScanMessage
	if err := DecodeScan(body, &out, DecodeOptions{StrictBounds: true}); err != nil {
		t.Fatalf("DecodeScan: %v", err)
	}
	if out.MeasurementID != 42 || out.ScannerStatus != 1 {
		t.Errorf("id/status = %d/%d", out.MeasurementID, out.ScannerStatus)
	}
	if out.StartTime != in.StartTime || out.EndTime != in.EndTime {
		t.Errorf("timestamps = %+v/%+v", out.StartTime, out.EndTime)
	}
	if out.NumSteps != 11520 || out.StartAngle != 1600 || out.StopAngle != -1920 {
		t.Errorf("angles = %d %d %d", out.NumSteps, out.StartAngle, out.StopAngle)
	}
	if out.Mounting != in.Mounting || out.Flags != 0x0400 {
		t.Errorf("mounting/flags = %+v/%04X", out.Mounting, out.Flags)
	}
	if out.NumPoints != 1 || len(out.Points) != 1 {
		t.Fatalf("points = %d/%d", out.NumPoints, len(out.Points))
	}
}

func TestDecodeScan_PointRecord(t *testing.T) {
	body := EncodeScan(nil, testScanMessage())
	// Hand-built record: echo 1, layer 2, flags 0x08, angle -2500, distance 250, pulse 30.
	rec := []byte{0x12, 0x08, 0x3C, 0xF6, 0xFA, 0x00, 0x1E, 0x00, 0, 0}
	body = append(body, rec...)
	body[scanOffsetNumPoints] = 1

	var out ScanMessage
	if err := DecodeScan(body, &out, DecodeOptions{StrictBounds: true}); err != nil {
		t.Fatalf("DecodeScan: %v", err)
	}
	got := out.Points[0]
	want := PointRecord{Layer: 2, Echo: 1, Flags: 0x08, AngleStep: -2500, Distance: 250, PulseWidth: 30}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestDecodeScan_Bounds(t *testing.T) {
	in := testScanMessage(
		PointRecord{Layer: 0, Distance: 1},
		PointRecord{Layer: 1, Distance: 2},
		PointRecord{Layer: 2, Distance: 3},
	)
	body := EncodeScan(nil, in)
	truncated := body[:len(body)-5] // last record incomplete

	testCases := []struct {
		name      string
		body      []byte
		strict    bool
		expectErr bool
		points    int
	}{
		{"complete_strict", body, true, false, 3},
		{"truncated_strict", truncated, true, true, 0},
		{"truncated_lax", truncated, false, false, 2},
		{"prefix_only", body[:ScanPrefixSize-1], false, true, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out ScanMessage
			err := DecodeScan(tc.body, &out, DecodeOptions{StrictBounds: tc.strict})
			if tc.expectErr {
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out.Points) != tc.points {
				t.Errorf("points = %d, want %d", len(out.Points), tc.points)
			}
		})
	}
}

func TestDecodeScan_RejectsBadLayer(t *testing.T) {
	body := EncodeScan(nil, testScanMessage(PointRecord{Layer: 5}))
	var out ScanMessage
	err := DecodeScan(body, &out, DecodeOptions{StrictBounds: true})
	var de *DecodeError
	if !errors.As(err, &de) || de.Field != "layer" {
		t.Fatalf("expected layer DecodeError, got %v", err)
	}
}

func TestDecodeScan_RejectsZeroSteps(t *testing.T) {
	in := testScanMessage(PointRecord{Layer: 0, Distance: 10})
	in.NumSteps = 0
	var out ScanMessage
	if err := DecodeScan(EncodeScan(nil, in), &out, DecodeOptions{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	// No points: zero steps is harmless.
	in = testScanMessage()
	in.NumSteps = 0
	if err := DecodeScan(EncodeScan(nil, in), &out, DecodeOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeScan_ReusesPoints(t *testing.T) {
	var out ScanMessage
	big := EncodeScan(nil, testScanMessage(PointRecord{}, PointRecord{}, PointRecord{}))
	if err := DecodeScan(big, &out, DecodeOptions{StrictBounds: true}); err != nil {
		t.Fatal(err)
	}
	backing := &out.Points[0]

	small := EncodeScan(nil, testScanMessage(PointRecord{Distance: 9}))
	if err := DecodeScan(small, &out, DecodeOptions{StrictBounds: true}); err != nil {
		t.Fatal(err)
	}
	if len(out.Points) != 1 || out.Points[0].Distance != 9 {
		t.Fatalf("points = %+v", out.Points)
	}
	if &out.Points[0] != backing {
		t.Error("expected Points backing array to be reused")
	}
}

func TestMessageTypeString(t *testing.T) {
	if MsgScanData.String() != "ScanData" {
		t.Errorf("MsgScanData.String() = %q", MsgScanData.String())
	}
	if MessageType(0x1234).String() != "Unknown" {
		t.Errorf("unknown type String() = %q", MessageType(0x1234).String())
	}
}
