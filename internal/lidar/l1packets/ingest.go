package l1packets

import (
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/network"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
)

// Type aliases re-export the transport and wire types from the network/
// and parse/ subpackages so callers can import a single layer package.

// Transport types (from network/).

// Conn is the TCP connection to one scanner.
type Conn = network.Conn

// ConnectionError reports a failed connect or a read on a dead link.
type ConnectionError = network.ConnectionError

// FrameForwarder mirrors raw frames over UDP.
type FrameForwarder = network.FrameForwarder

// Wire types (from parse/).

// FrameHeader is the decoded 24-byte frame header.
type FrameHeader = parse.FrameHeader

// FrameReader delimits frames on an exact-read source.
type FrameReader = parse.FrameReader

// ScanMessage is a decoded scan-data body.
type ScanMessage = parse.ScanMessage

// PointRecord is one raw point of a scan-data body.
type PointRecord = parse.PointRecord

// NTPTime is a device timestamp.
type NTPTime = parse.NTPTime

// Constructor and function re-exports.

var (
	NewConn           = network.NewConn
	NewFrameForwarder = network.NewFrameForwarder
	OpenPCAPStream    = network.OpenPCAPStream
	ExtractTCPStream  = network.ExtractTCPStream
	NewFrameReader    = parse.NewFrameReader
	DecodeHeader      = parse.DecodeHeader
	DecodeScan        = parse.DecodeScan
)
