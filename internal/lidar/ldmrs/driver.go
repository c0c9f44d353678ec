package ldmrs

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/ldmrs/internal/lidar"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/network"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
	"github.com/banshee-data/ldmrs/internal/lidar/l2frames"
	"github.com/banshee-data/ldmrs/internal/monitoring"
	"github.com/banshee-data/ldmrs/internal/timeutil"
)

// FrameSink receives a copy of every raw frame read, e.g. a FrameForwarder.
type FrameSink interface {
	Forward(header, body []byte)
}

// StatsRecorder receives per-call counters, e.g. lidar.FrameStats.
type StatsRecorder interface {
	AddFrame(bytes int)
	AddScan(points int)
	AddError()
}

// Config holds the driver settings fixed at construction.
type Config struct {
	Address            string
	Port               int
	ConnectTimeout     time.Duration
	LayerElevationsDeg [lidar.NumLayers]float64
	MaxBodySize        int
	StrictBounds       bool

	Clock timeutil.Clock // host wall clock; RealClock when nil
	Sink  FrameSink      // optional
	Stats StatsRecorder  // optional
}

// DefaultConfig returns the factory endpoint, elevations and buffer size.
func DefaultConfig() Config {
	return Config{
		Address:            network.DefaultAddress,
		Port:               network.DefaultPort,
		ConnectTimeout:     network.DefaultConnectTimeout,
		LayerElevationsDeg: lidar.DefaultLayerElevationsDeg,
		MaxBodySize:        parse.MaxBodySize,
		StrictBounds:       true,
	}
}

// Driver decodes scans from one scanner.
type Driver struct {
	id        string
	conn      *network.Conn
	src       parse.ExactReader
	reader    *parse.FrameReader
	assembler *l2frames.Assembler
	timeSync  l2frames.TimeSync
	clock     timeutil.Clock
	opts      parse.DecodeOptions
	sink      FrameSink
	stats     StatsRecorder
	logf      func(format string, v ...interface{})

	msg        parse.ScanMessage
	lastHeader parse.FrameHeader
	seenTypes  map[parse.MessageType]bool
}

// New creates a disconnected driver. No I/O is performed.
func New(cfg Config) *Driver {
	conn := network.NewConn()
	if cfg.Address != "" || cfg.Port != 0 {
		addr, port := cfg.Address, cfg.Port
		if addr == "" {
			addr = network.DefaultAddress
		}
		if port == 0 {
			port = network.DefaultPort
		}
		conn.Configure(addr, port)
	}
	conn.SetConnectTimeout(cfg.ConnectTimeout)

	clock := cfg.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	id := uuid.NewString()
	return &Driver{
		id:        id,
		conn:      conn,
		reader:    parse.NewFrameReader(conn, cfg.MaxBodySize),
		assembler: l2frames.NewAssembler(cfg.LayerElevationsDeg),
		clock:     clock,
		opts:      parse.DecodeOptions{StrictBounds: cfg.StrictBounds},
		sink:      cfg.Sink,
		stats:     cfg.Stats,
		logf:      monitoring.Tagged("ldmrs " + id[:8]),
		seenTypes: make(map[parse.MessageType]bool),
	}
}

// ID returns the session id used to tag this driver's log lines.
func (d *Driver) ID() string {
	return d.id
}

// Addr returns the configured device endpoint.
func (d *Driver) Addr() string {
	return d.conn.Addr()
}

// Configure sets the device endpoint used by the next Setup.
func (d *Driver) Configure(address string, port int) {
	d.conn.Configure(address, port)
}

// Setup connects to the configured endpoint within the connect timeout.
func (d *Driver) Setup(ctx context.Context) error {
	if err := d.conn.Connect(ctx); err != nil {
		d.logf("Connect to %s failed: %v", d.conn.Addr(), err)
		return err
	}
	d.src = d.conn
	d.reader.Reset(d.conn)
	d.logf("Connected to %s", d.conn.Addr())
	return nil
}

// SetupAddr is Configure followed by Setup.
func (d *Driver) SetupAddr(ctx context.Context, address string, port int) error {
	d.Configure(address, port)
	return d.Setup(ctx)
}

// UseStream reads frames from r instead of the TCP connection, e.g. a
// reassembled capture.
func (d *Driver) UseStream(r io.Reader) {
	src := parse.StreamSource{R: r}
	d.src = src
	d.reader.Reset(src)
}

// Measure performs one read cycle. On a scan-data frame the four scans are
// replaced with the new revolution; on any other frame type they are left
// as they were and nil is returned. On error the scans are not modified.
func (d *Driver) Measure(scans *[lidar.NumLayers]lidar.LaserScan) error {
	if d.src == nil {
		return &network.ConnectionError{Op: "read", Addr: d.conn.Addr(), Err: fmt.Errorf("driver not set up")}
	}

	var hostTime time.Time
	if !d.timeSync.Synced() {
		hostTime = d.clock.Now()
	}

	h, err := d.reader.ReadHeader()
	if err != nil {
		return d.fail(err)
	}
	body, err := d.reader.ReadBody(h)
	if err != nil {
		return d.fail(err)
	}
	d.lastHeader = h

	if d.stats != nil {
		d.stats.AddFrame(parse.HeaderSize + len(body))
	}
	if d.sink != nil {
		d.sink.Forward(d.reader.RawHeader(), body)
	}

	if h.Type != parse.MsgScanData {
		if !d.seenTypes[h.Type] {
			d.seenTypes[h.Type] = true
			d.logf("Ignoring %s message (type 0x%04X, %d bytes)", h.Type, uint16(h.Type), len(body))
		}
		return nil
	}

	if err := parse.DecodeScan(body, &d.msg, d.opts); err != nil {
		return d.fail(err)
	}

	if d.timeSync.Calibrate(hostTime, d.msg.StartTime) {
		d.logf("Clock calibrated: offset %.6f s (device start %.6f s)",
			d.timeSync.Offset().Seconds(), d.msg.StartTime.Float())
	}
	start := d.timeSync.Apply(d.msg.StartTime)
	end := d.timeSync.Apply(d.msg.EndTime)

	retained := d.assembler.Assemble(&d.msg, start, end, scans)
	if d.stats != nil {
		d.stats.AddScan(retained)
	}
	return nil
}

func (d *Driver) fail(err error) error {
	if d.stats != nil {
		d.stats.AddError()
	}
	return fmt.Errorf("measure: %w", err)
}

// LastHeader returns the header of the last frame read in full.
func (d *Driver) LastHeader() parse.FrameHeader {
	return d.lastHeader
}

// LastScanMessage returns the last decoded scan body including the fields
// not copied into LaserScan (status, mounting pose). Valid until the next
// Measure.
func (d *Driver) LastScanMessage() *parse.ScanMessage {
	return &d.msg
}

// Synced reports whether the clock offset has been established.
func (d *Driver) Synced() bool {
	return d.timeSync.Synced()
}

// TimeOffset returns the host-minus-device clock offset.
func (d *Driver) TimeOffset() time.Duration {
	return d.timeSync.Offset()
}

// Elevation returns the configured vertical angle of a layer in radians.
func (d *Driver) Elevation(layer int) float64 {
	return d.assembler.Elevation(layer)
}

// Close drops the connection, and closes the replay stream when it is an
// io.Closer. The clock offset is kept.
func (d *Driver) Close() error {
	err := d.conn.Close()
	if s, ok := d.src.(parse.StreamSource); ok {
		if c, ok := s.R.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
	}
	return err
}
