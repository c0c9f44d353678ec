package parse

import (
	"encoding/binary"
)

// MountingPosition is the mounting pose the scanner reports with each scan.
// Angles are in device ticks, offsets in centimeters.
type MountingPosition struct {
	Yaw, Pitch, Roll int16
	X, Y, Z          int16
}

// PointRecord is one raw 10-byte point record.
type PointRecord struct {
	Layer      uint8  // 0..3
	Echo       uint8  // 0 = first echo
	Flags      uint8
	AngleStep  int16  // horizontal angle in ticks
	Distance   uint16 // centimeters
	PulseWidth uint16 // centimeters
}

// ScanMessage is a decoded scan-data body. Points holds every record as it
// appeared on the wire, all layers and echoes included.
type ScanMessage struct {
	MeasurementID   uint16
	ScannerStatus   uint16
	SyncPhaseOffset uint16
	StartTime       NTPTime
	EndTime         NTPTime
	NumSteps        uint16
	StartAngle      int16
	StopAngle       int16
	NumPoints       uint16
	Mounting        MountingPosition
	Flags           uint16
	Points          []PointRecord
}

// DecodeOptions controls the defensive checks applied by DecodeScan.
type DecodeOptions struct {
	// StrictBounds rejects bodies whose declared point count does not fit in
	// the body. When false, only the complete records present are decoded.
	StrictBounds bool
}

// DecodeScan decodes a scan-data body into msg, reusing msg.Points. msg is
// left in an unspecified state when an error is returned.
func DecodeScan(body []byte, msg *ScanMessage, opts DecodeOptions) error {
	if len(body) < ScanPrefixSize {
		return decodeErrorf("body", "length %d shorter than %d-byte scan prefix", len(body), ScanPrefixSize)
	}

	le := binary.LittleEndian
	msg.MeasurementID = le.Uint16(body[scanOffsetMeasurementID:])
	msg.ScannerStatus = le.Uint16(body[scanOffsetStatus:])
	msg.SyncPhaseOffset = le.Uint16(body[scanOffsetSyncPhase:])
	msg.StartTime = readNTPLittle(body[scanOffsetStartTime:])
	msg.EndTime = readNTPLittle(body[scanOffsetEndTime:])
	msg.NumSteps = le.Uint16(body[scanOffsetNumSteps:])
	msg.StartAngle = int16(le.Uint16(body[scanOffsetStartAngle:]))
	msg.StopAngle = int16(le.Uint16(body[scanOffsetStopAngle:]))
	msg.NumPoints = le.Uint16(body[scanOffsetNumPoints:])
	msg.Mounting = MountingPosition{
		Yaw:   int16(le.Uint16(body[scanOffsetMountYaw:])),
		Pitch: int16(le.Uint16(body[scanOffsetMountPitch:])),
		Roll:  int16(le.Uint16(body[scanOffsetMountRoll:])),
		X:     int16(le.Uint16(body[scanOffsetMountX:])),
		Y:     int16(le.Uint16(body[scanOffsetMountY:])),
		Z:     int16(le.Uint16(body[scanOffsetMountZ:])),
	}
	msg.Flags = le.Uint16(body[scanOffsetFlags:])

	count := int(msg.NumPoints)
	need := ScanPrefixSize + count*PointRecordSize
	if need > len(body) {
		if opts.StrictBounds {
			return decodeErrorf("numPoints", "%d records need %d bytes, body has %d", count, need, len(body))
		}
		count = (len(body) - ScanPrefixSize) / PointRecordSize
	}
	if count > 0 && msg.NumSteps == 0 {
		return decodeErrorf("numSteps", "zero steps per revolution with %d points", count)
	}

	msg.Points = msg.Points[:0]
	for i := 0; i < count; i++ {
		rec := body[ScanPrefixSize+i*PointRecordSize : ScanPrefixSize+(i+1)*PointRecordSize]
		p := PointRecord{
			Layer:      rec[pointOffsetLayerEcho] & 0x0F,
			Echo:       rec[pointOffsetLayerEcho] >> 4,
			Flags:      rec[pointOffsetFlags],
			AngleStep:  int16(le.Uint16(rec[pointOffsetAngle:])),
			Distance:   le.Uint16(rec[pointOffsetDistance:]),
			PulseWidth: le.Uint16(rec[pointOffsetPulse:]),
		}
		if p.Layer > MaxLayer {
			return decodeErrorf("layer", "record %d has layer %d, max %d", i, p.Layer, MaxLayer)
		}
		msg.Points = append(msg.Points, p)
	}
	return nil
}

// readNTPLittle reads a body timestamp: fraction first, then seconds.
func readNTPLittle(b []byte) NTPTime {
	return NTPTime{
		Fraction: binary.LittleEndian.Uint32(b[0:]),
		Seconds:  binary.LittleEndian.Uint32(b[4:]),
	}
}

// EncodeScan appends the wire form of msg to dst. NumPoints is written as
// given, not derived from len(msg.Points). Used by simulators and tests.
func EncodeScan(dst []byte, msg *ScanMessage) []byte {
	var prefix [ScanPrefixSize]byte
	le := binary.LittleEndian
	le.PutUint16(prefix[scanOffsetMeasurementID:], msg.MeasurementID)
	le.PutUint16(prefix[scanOffsetStatus:], msg.ScannerStatus)
	le.PutUint16(prefix[scanOffsetSyncPhase:], msg.SyncPhaseOffset)
	le.PutUint32(prefix[scanOffsetStartTime:], msg.StartTime.Fraction)
	le.PutUint32(prefix[scanOffsetStartTime+4:], msg.StartTime.Seconds)
	le.PutUint32(prefix[scanOffsetEndTime:], msg.EndTime.Fraction)
	le.PutUint32(prefix[scanOffsetEndTime+4:], msg.EndTime.Seconds)
	le.PutUint16(prefix[scanOffsetNumSteps:], msg.NumSteps)
	le.PutUint16(prefix[scanOffsetStartAngle:], uint16(msg.StartAngle))
	le.PutUint16(prefix[scanOffsetStopAngle:], uint16(msg.StopAngle))
	le.PutUint16(prefix[scanOffsetNumPoints:], msg.NumPoints)
	le.PutUint16(prefix[scanOffsetMountYaw:], uint16(msg.Mounting.Yaw))
	le.PutUint16(prefix[scanOffsetMountPitch:], uint16(msg.Mounting.Pitch))
	le.PutUint16(prefix[scanOffsetMountRoll:], uint16(msg.Mounting.Roll))
	le.PutUint16(prefix[scanOffsetMountX:], uint16(msg.Mounting.X))
	le.PutUint16(prefix[scanOffsetMountY:], uint16(msg.Mounting.Y))
	le.PutUint16(prefix[scanOffsetMountZ:], uint16(msg.Mounting.Z))
	le.PutUint16(prefix[scanOffsetFlags:], msg.Flags)
	dst = append(dst, prefix[:]...)

	for _, p := range msg.Points {
		var rec [PointRecordSize]byte
		rec[pointOffsetLayerEcho] = (p.Echo << 4) | (p.Layer & 0x0F)
		rec[pointOffsetFlags] = p.Flags
		le.PutUint16(rec[pointOffsetAngle:], uint16(p.AngleStep))
		le.PutUint16(rec[pointOffsetDistance:], p.Distance)
		le.PutUint16(rec[pointOffsetPulse:], p.PulseWidth)
		dst = append(dst, rec[:]...)
	}
	return dst
}

// EncodeFrame builds a complete frame (header and body) of the given type.
func EncodeFrame(t MessageType, body []byte) []byte {
	frame := make([]byte, HeaderSize+len(body))
	EncodeHeader(frame, FrameHeader{
		Magic:      MagicWord,
		BodyLength: uint32(len(body)),
		Type:       t,
	})
	copy(frame[HeaderSize:], body)
	return frame
}
