package parse

/*
SICK LD-MRS Host Protocol

The scanner streams frames over a single TCP connection (default port 12002).
Every frame is a fixed 24-byte header followed by a variable-length body.

HEADER (24 bytes, big-endian):
├── 0..3   magic word 0xAFFEC0C2
├── 4..7   size of the previous message
├── 8..11  body length in bytes
├── 12     reserved
├── 13     device id
├── 14..15 message type (0x2202 = scan data)
└── 16..23 NTP timestamp (seconds, fraction)

SCAN DATA BODY (little-endian):
├── 0..1   measurement id
├── 2..3   scanner status
├── 4..5   sync phase offset
├── 6..13  scan start time (fraction, seconds)
├── 14..21 scan end time (fraction, seconds)
├── 22..23 angle ticks per rotation
├── 24..25 start angle (signed ticks)
├── 26..27 end angle (signed ticks)
├── 28..29 number of point records
├── 30..41 mounting yaw, pitch, roll, x, y, z (signed)
├── 42..43 scan flags
└── 44..   point records, 10 bytes each

POINT RECORD (10 bytes, little-endian):
├── 0      low nibble layer (0..3), high nibble echo index
├── 1      flags
├── 2..3   horizontal angle (signed ticks)
├── 4..5   radial distance (cm)
├── 6..7   echo pulse width (cm)
└── 8..9   reserved

Only the header is network byte order; the body is little-endian. Each field
is extracted individually at its documented offset.
*/

// Frame header constants
const (
	MagicWord   uint32 = 0xAFFEC0C2
	HeaderSize         = 24
	MaxBodySize        = 104000 // largest body the scanner emits, with margin

	headerOffsetMagic    = 0
	headerOffsetPrevSize = 4
	headerOffsetBodyLen  = 8
	headerOffsetDeviceID = 13
	headerOffsetMsgType  = 14
	headerOffsetNTP      = 16
)

// MessageType identifies the body layout of a frame.
type MessageType uint16

// Message types sent by the scanner. Only ScanData is decoded; the rest are
// drained and ignored.
const (
	MsgScanData     MessageType = 0x2202
	MsgObjectData   MessageType = 0x2221
	MsgErrorWarning MessageType = 0x2030
	MsgCommandReply MessageType = 0x2020
	MsgCommand      MessageType = 0x2010
	MsgVehicleState MessageType = 0x2805
)

// String returns the protocol name of the message type.
func (t MessageType) String() string {
	switch t {
	case MsgScanData:
		return "ScanData"
	case MsgObjectData:
		return "ObjectData"
	case MsgErrorWarning:
		return "ErrorWarning"
	case MsgCommandReply:
		return "CommandReply"
	case MsgCommand:
		return "Command"
	case MsgVehicleState:
		return "VehicleState"
	default:
		return "Unknown"
	}
}

// Scan data body layout
const (
	ScanPrefixSize  = 44
	PointRecordSize = 10

	scanOffsetMeasurementID = 0
	scanOffsetStatus        = 2
	scanOffsetSyncPhase     = 4
	scanOffsetStartTime     = 6
	scanOffsetEndTime       = 14
	scanOffsetNumSteps      = 22
	scanOffsetStartAngle    = 24
	scanOffsetStopAngle     = 26
	scanOffsetNumPoints     = 28
	scanOffsetMountYaw      = 30
	scanOffsetMountPitch    = 32
	scanOffsetMountRoll     = 34
	scanOffsetMountX        = 36
	scanOffsetMountY        = 38
	scanOffsetMountZ        = 40
	scanOffsetFlags         = 42

	pointOffsetLayerEcho = 0
	pointOffsetFlags     = 1
	pointOffsetAngle     = 2
	pointOffsetDistance  = 4
	pointOffsetPulse     = 6
)

// Physical conversion constants
const (
	CentimetersPerMeter = 100.0 // raw distance unit is 1 cm
	MaxLayer            = 3
)
