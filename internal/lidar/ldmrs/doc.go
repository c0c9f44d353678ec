// Package ldmrs is the acquisition driver for a SICK LD-MRS four-layer
// laser scanner.
//
// A Driver owns one TCP connection. Each Measure call performs exactly one
// header read, one body read and, for scan-data frames, one decode into
// four caller-owned LaserScan records. Other message types are drained and
// reported as success without touching the scans. Failures are returned
// directly; the driver never retries or reconnects on its own.
//
// A Driver is not safe for concurrent use. Close may be called from another
// goroutine to unblock a pending Measure.
package ldmrs
