package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
)

// Default device endpoint and connect bound.
const (
	DefaultAddress        = "131.254.12.119"
	DefaultPort           = 12002
	DefaultConnectTimeout = 3 * time.Second
)

// ErrConnection is the sentinel all connection failures unwrap to.
var ErrConnection = errors.New("connection error")

var errNotConnected = errors.New("not connected")

// ConnState is the lifecycle state of a Conn.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// ConnectionError reports a failed connect or a read on a connection that is
// not established.
type ConnectionError struct {
	Op      string // "connect" or "read"
	Addr    string
	Timeout bool
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%v: %s %s: timed out: %v", ErrConnection, e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%v: %s %s: %v", ErrConnection, e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() []error { return []error{ErrConnection, e.Err} }

// Conn owns the TCP stream to the scanner. It is not safe for concurrent
// use; Close may be called from another goroutine to unblock a read.
type Conn struct {
	address        string
	port           int
	connectTimeout time.Duration
	dialer         func(ctx context.Context, network, addr string) (net.Conn, error)

	mu    sync.Mutex // guards conn, state
	conn  net.Conn
	state ConnState
}

// NewConn creates a disconnected Conn targeting the default endpoint.
func NewConn() *Conn {
	return &Conn{
		address:        DefaultAddress,
		port:           DefaultPort,
		connectTimeout: DefaultConnectTimeout,
	}
}

// Configure stores the target endpoint. It performs no I/O and takes effect
// on the next Connect.
func (c *Conn) Configure(address string, port int) {
	c.address = address
	c.port = port
}

// SetConnectTimeout overrides the connect bound. Non-positive values restore
// the default.
func (c *Conn) SetConnectTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultConnectTimeout
	}
	c.connectTimeout = d
}

// Addr returns the configured host:port.
func (c *Conn) Addr() string {
	return net.JoinHostPort(c.address, strconv.Itoa(c.port))
}

// State returns the current connection state.
func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conn) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conn) current() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected {
		return nil
	}
	return c.conn
}

// Connect dials the scanner, waiting at most the connect timeout (or until
// ctx is done). An existing connection is closed first.
func (c *Conn) Connect(ctx context.Context) error {
	_ = c.Close()
	addr := c.Addr()
	c.setState(Connecting)

	dial := c.dialer
	if dial == nil {
		d := &net.Dialer{Timeout: c.connectTimeout}
		dial = d.DialContext
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, err := dial(dialCtx, "tcp", addr)
	if err != nil {
		c.setState(Disconnected)
		var netErr net.Error
		timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
		return &ConnectionError{Op: "connect", Addr: addr, Timeout: timeout, Err: err}
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	c.mu.Lock()
	c.conn = conn
	c.state = Connected
	c.mu.Unlock()
	return nil
}

// Attach adopts an already established stream, e.g. one end of net.Pipe.
func (c *Conn) Attach(conn net.Conn) {
	_ = c.Close()
	c.mu.Lock()
	c.conn = conn
	c.state = Connected
	c.mu.Unlock()
}

// ReadExact blocks until len(buf) bytes are received. A peer close or error
// before that returns the error; the partial data in buf must not be used.
func (c *Conn) ReadExact(buf []byte) (int, error) {
	conn := c.current()
	if conn == nil {
		return 0, &ConnectionError{Op: "read", Addr: c.Addr(), Err: errNotConnected}
	}
	return io.ReadFull(conn, buf)
}

// SetReadDeadline forwards to the underlying connection.
func (c *Conn) SetReadDeadline(t time.Time) error {
	conn := c.current()
	if conn == nil {
		return &ConnectionError{Op: "read", Addr: c.Addr(), Err: errNotConnected}
	}
	return conn.SetReadDeadline(t)
}

// Close closes the stream and returns to Disconnected.
func (c *Conn) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = Disconnected
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
