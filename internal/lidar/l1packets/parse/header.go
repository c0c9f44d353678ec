package parse

import (
	"encoding/binary"
	"time"
)

// NTPTime is a 64-bit fixed point timestamp: whole seconds plus a fraction
// in units of 2^-32 seconds.
type NTPTime struct {
	Seconds  uint32
	Fraction uint32
}

// Float returns seconds + fraction/2^32.
func (t NTPTime) Float() float64 {
	return float64(t.Seconds) + float64(t.Fraction)/4294967296.0
}

// Duration returns the timestamp as a duration since the device epoch,
// truncated to nanoseconds.
func (t NTPTime) Duration() time.Duration {
	frac := (uint64(t.Fraction) * uint64(time.Second)) >> 32
	return time.Duration(t.Seconds)*time.Second + time.Duration(frac)
}

// FrameHeader is the decoded 24-byte frame header.
type FrameHeader struct {
	Magic        uint32
	PreviousSize uint32
	BodyLength   uint32
	DeviceID     uint8
	Type         MessageType
	Timestamp    NTPTime
}

// DecodeHeader extracts the header fields from exactly HeaderSize bytes.
// The magic word is validated; a mismatch returns a FrameError wrapping
// ErrBadMagic together with the partially decoded header.
func DecodeHeader(data []byte) (FrameHeader, error) {
	if len(data) < HeaderSize {
		return FrameHeader{}, &FrameError{Kind: ErrShortRead, Stage: "header", Want: HeaderSize, Got: len(data)}
	}

	h := FrameHeader{
		Magic:        binary.BigEndian.Uint32(data[headerOffsetMagic:]),
		PreviousSize: binary.BigEndian.Uint32(data[headerOffsetPrevSize:]),
		BodyLength:   binary.BigEndian.Uint32(data[headerOffsetBodyLen:]),
		DeviceID:     data[headerOffsetDeviceID],
		Type:         MessageType(binary.BigEndian.Uint16(data[headerOffsetMsgType:])),
		Timestamp: NTPTime{
			Seconds:  binary.BigEndian.Uint32(data[headerOffsetNTP:]),
			Fraction: binary.BigEndian.Uint32(data[headerOffsetNTP+4:]),
		},
	}

	if h.Magic != MagicWord {
		return h, &FrameError{Kind: ErrBadMagic, Stage: "header", Magic: h.Magic}
	}
	return h, nil
}

// EncodeHeader writes h into dst, which must hold at least HeaderSize bytes.
// The reserved byte is zeroed.
func EncodeHeader(dst []byte, h FrameHeader) {
	_ = dst[HeaderSize-1]
	binary.BigEndian.PutUint32(dst[headerOffsetMagic:], h.Magic)
	binary.BigEndian.PutUint32(dst[headerOffsetPrevSize:], h.PreviousSize)
	binary.BigEndian.PutUint32(dst[headerOffsetBodyLen:], h.BodyLength)
	dst[12] = 0
	dst[headerOffsetDeviceID] = h.DeviceID
	binary.BigEndian.PutUint16(dst[headerOffsetMsgType:], uint16(h.Type))
	binary.BigEndian.PutUint32(dst[headerOffsetNTP:], h.Timestamp.Seconds)
	binary.BigEndian.PutUint32(dst[headerOffsetNTP+4:], h.Timestamp.Fraction)
}
