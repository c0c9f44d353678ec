package l2frames

import (
	"time"

	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
)

// TimeSync maps device timestamps onto host wall-clock time with a single
// offset fixed at the first successful scan. The offset is never
// recomputed, so device drift relative to the host is not corrected.
type TimeSync struct {
	synced bool
	offset time.Duration // host unix time minus device time
}

// Synced reports whether the offset has been fixed.
func (s *TimeSync) Synced() bool {
	return s.synced
}

// Offset returns the host-minus-device offset, zero before calibration.
func (s *TimeSync) Offset() time.Duration {
	return s.offset
}

// Calibrate fixes the offset from the host time observed just before the
// frame was read and the device start timestamp it carried. Only the first
// call has an effect; it returns true when it did.
func (s *TimeSync) Calibrate(host time.Time, deviceStart parse.NTPTime) bool {
	if s.synced {
		return false
	}
	s.offset = time.Duration(host.UnixNano()) - deviceStart.Duration()
	s.synced = true
	return true
}

// Apply converts a device timestamp to host time.
func (s *TimeSync) Apply(device parse.NTPTime) time.Time {
	return time.Unix(0, int64(s.offset+device.Duration()))
}
