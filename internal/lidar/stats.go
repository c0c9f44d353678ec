package lidar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/banshee-data/ldmrs/internal/monitoring"
)

// FrameStats tracks frame statistics with thread-safe operations.
// It is shared between the acquisition loop and the forwarder goroutine.
type FrameStats struct {
	mu           sync.Mutex
	frameCount   int64
	byteCount    int64
	scanCount    int64
	pointCount   int64
	errorCount   int64
	droppedCount int64
	lastReset    time.Time
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Frames   int64
	Bytes    int64
	Scans    int64
	Points   int64
	Errors   int64
	Dropped  int64
	Duration time.Duration
}

// NewFrameStats creates a new FrameStats instance
func NewFrameStats() *FrameStats {
	return &FrameStats{
		lastReset: time.Now(),
	}
}

// AddFrame increments frame count and byte count
func (fs *FrameStats) AddFrame(bytes int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.frameCount++
	fs.byteCount += int64(bytes)
}

// AddScan records one decoded scan-data message with the given retained points.
func (fs *FrameStats) AddScan(points int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.scanCount++
	fs.pointCount += int64(points)
}

// AddError increments the failed read cycle count
func (fs *FrameStats) AddError() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.errorCount++
}

// AddDropped increments dropped forward count
func (fs *FrameStats) AddDropped() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.droppedCount++
}

// GetAndReset returns current stats and resets counters
func (fs *FrameStats) GetAndReset() StatsSnapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now()
	snap := StatsSnapshot{
		Frames:   fs.frameCount,
		Bytes:    fs.byteCount,
		Scans:    fs.scanCount,
		Points:   fs.pointCount,
		Errors:   fs.errorCount,
		Dropped:  fs.droppedCount,
		Duration: now.Sub(fs.lastReset),
	}

	fs.frameCount = 0
	fs.byteCount = 0
	fs.scanCount = 0
	fs.pointCount = 0
	fs.errorCount = 0
	fs.droppedCount = 0
	fs.lastReset = now

	return snap
}

// LogStats logs per-second rates accumulated since the last call
func (fs *FrameStats) LogStats() {
	snap := fs.GetAndReset()
	if snap.Frames == 0 && snap.Errors == 0 && snap.Dropped == 0 {
		return
	}
	secs := snap.Duration.Seconds()
	if secs <= 0 {
		return
	}

	logMsg := fmt.Sprintf("LD-MRS stats (/sec): %.3f MB, %.1f frames, %.1f scans, %s points",
		float64(snap.Bytes)/secs/(1024*1024),
		float64(snap.Frames)/secs,
		float64(snap.Scans)/secs,
		FormatWithCommas(int64(float64(snap.Points)/secs)))

	if snap.Errors > 0 {
		logMsg += fmt.Sprintf(", %d failed reads", snap.Errors)
	}
	if snap.Dropped > 0 {
		logMsg += fmt.Sprintf(", %d dropped on forward", snap.Dropped)
	}

	monitoring.Logf("%s", logMsg)
}

// FormatWithCommas formats a number with thousands separators
func FormatWithCommas(n int64) string {
	str := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
