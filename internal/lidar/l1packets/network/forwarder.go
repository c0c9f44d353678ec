package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/banshee-data/ldmrs/internal/monitoring"
)

// DropCounter receives a count for every frame the forwarder could not queue.
type DropCounter interface {
	AddDropped()
}

// FrameForwarder mirrors raw frames (header and body) to a UDP address for
// external monitoring tools. Forwarding never blocks the acquisition loop:
// frames are queued and dropped when the queue is full.
type FrameForwarder struct {
	conn        *net.UDPConn
	channel     chan []byte
	stats       DropCounter
	logInterval time.Duration
	address     string
	done        chan struct{}
}

// NewFrameForwarder creates a forwarder that sends frames to addr:port.
func NewFrameForwarder(addr string, port int, stats DropCounter, logInterval time.Duration) (*FrameForwarder, error) {
	forwardAddress := net.JoinHostPort(addr, strconv.Itoa(port))
	forwardUDPAddr, err := net.ResolveUDPAddr("udp", forwardAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve forward address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, forwardUDPAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create forward connection: %w", err)
	}

	if logInterval <= 0 {
		logInterval = time.Minute
	}

	return &FrameForwarder{
		conn:        conn,
		channel:     make(chan []byte, 256),
		stats:       stats,
		logInterval: logInterval,
		address:     forwardAddress,
		done:        make(chan struct{}),
	}, nil
}

// Start launches the goroutine draining the queue until ctx is done or the
// forwarder is closed. Write errors are summarized once per log interval.
func (f *FrameForwarder) Start(ctx context.Context) {
	go func() {
		defer close(f.done)
		failed := 0
		var lastError error
		ticker := time.NewTicker(f.logInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-f.channel:
				if !ok {
					return
				}
				if _, err := f.conn.Write(frame); err != nil {
					failed++
					lastError = err
				}
			case <-ticker.C:
				if failed > 0 && lastError != nil {
					monitoring.Logf("Dropped %d forwarded frames due to errors (latest: %v)", failed, lastError)
					failed = 0
					lastError = nil
				}
			}
		}
	}()

	monitoring.Logf("Forwarding frames to %s", f.address)
}

// Forward queues a copy of header+body. The inputs may be reused by the
// caller as soon as Forward returns.
func (f *FrameForwarder) Forward(header, body []byte) {
	frame := make([]byte, len(header)+len(body))
	copy(frame, header)
	copy(frame[len(header):], body)

	select {
	case f.channel <- frame:
	default:
		if f.stats != nil {
			f.stats.AddDropped()
		}
	}
}

// Address returns the destination host:port.
func (f *FrameForwarder) Address() string {
	return f.address
}

// Close stops accepting frames and closes the UDP socket. It must not be
// called concurrently with Forward.
func (f *FrameForwarder) Close() error {
	close(f.channel)
	return f.conn.Close()
}

// Wait blocks until the goroutine started by Start has exited.
func (f *FrameForwarder) Wait() {
	<-f.done
}
