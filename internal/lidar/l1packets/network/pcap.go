package network

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/ldmrs/internal/monitoring"
)

// ErrCaptureGap is returned when the capture is missing bytes of the
// scanner's TCP stream, so frames after the gap cannot be trusted.
var ErrCaptureGap = errors.New("capture is missing stream bytes")

// flowKey identifies one direction of one TCP connection.
type flowKey struct {
	src, dst gopacket.Endpoint
	srcPort  layers.TCPPort
	dstPort  layers.TCPPort
}

// ExtractTCPStream reads a classic pcap capture and returns the payload the
// scanner sent on its first TCP connection from devicePort, reassembled in
// sequence order. Retransmitted bytes are dropped. Other connections and
// non-TCP traffic are ignored.
func ExtractTCPStream(r io.Reader, devicePort int) ([]byte, error) {
	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcap header: %w", err)
	}

	source := gopacket.NewPacketSource(reader, reader.LinkType())
	source.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}

	var (
		stream   bytes.Buffer
		flow     *flowKey
		nextSeq  uint32
		haveSeq  bool
		segments int
	)

	for packetNum := 1; ; packetNum++ {
		packet, err := source.NextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read packet %d: %w", packetNum, err)
		}

		tcp, ok := packet.Layer(layers.LayerTypeTCP).(*layers.TCP)
		if !ok || int(tcp.SrcPort) != devicePort {
			continue
		}
		netLayer := packet.NetworkLayer()
		if netLayer == nil {
			continue
		}
		key := flowKey{
			src:     netLayer.NetworkFlow().Src(),
			dst:     netLayer.NetworkFlow().Dst(),
			srcPort: tcp.SrcPort,
			dstPort: tcp.DstPort,
		}
		if flow == nil {
			flow = &key
		} else if *flow != key {
			continue
		}

		if tcp.SYN {
			nextSeq = tcp.Seq + 1
			haveSeq = true
			continue
		}
		payload := tcp.Payload
		if len(payload) == 0 {
			continue
		}
		if !haveSeq {
			// Capture started mid-connection.
			nextSeq = tcp.Seq
			haveSeq = true
		}

		// Signed distance handles sequence wraparound.
		ahead := int32(tcp.Seq - nextSeq)
		switch {
		case ahead > 0:
			return nil, fmt.Errorf("%w: packet %d: %d bytes missing at seq %d", ErrCaptureGap, packetNum, ahead, nextSeq)
		case int(-ahead) >= len(payload):
			continue
		default:
			payload = payload[-ahead:]
		}

		stream.Write(payload)
		nextSeq += uint32(len(payload))
		segments++
	}

	if flow == nil {
		return nil, fmt.Errorf("no TCP traffic from port %d in capture", devicePort)
	}
	monitoring.Logf("PCAP stream %s:%d -> %s:%d: %d segments, %d bytes",
		flow.src, flow.srcPort, flow.dst, flow.dstPort, segments, stream.Len())
	return stream.Bytes(), nil
}

// OpenPCAPStream loads a capture file and returns a reader over the
// scanner's reassembled TCP stream.
func OpenPCAPStream(path string, devicePort int) (*bytes.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCAP file %s: %w", path, err)
	}
	defer f.Close()

	data, err := ExtractTCPStream(f, devicePort)
	if err != nil {
		return nil, fmt.Errorf("PCAP file %s: %w", path, err)
	}
	return bytes.NewReader(data), nil
}
