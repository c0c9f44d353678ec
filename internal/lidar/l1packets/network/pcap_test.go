package network

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSegment struct {
	srcPort uint16
	dstPort uint16
	seq     uint32
	syn     bool
	payload []byte
}

func writeTestCapture(t *testing.T, segments []testSegment) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	ts := time.Unix(1700000000, 0)
	for i, s := range segments {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x06, 0x77, 0x00, 0x00, 0x01},
			DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := &layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolTCP,
			SrcIP:    net.IPv4(192, 168, 0, 1),
			DstIP:    net.IPv4(192, 168, 0, 2),
		}
		tcp := &layers.TCP{
			SrcPort: layers.TCPPort(s.srcPort),
			DstPort: layers.TCPPort(s.dstPort),
			Seq:     s.seq,
			SYN:     s.syn,
			ACK:     true,
			Window:  65535,
		}
		require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

		out := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
		require.NoError(t, gopacket.SerializeLayers(out, opts, eth, ip, tcp, gopacket.Payload(s.payload)))

		data := out.Bytes()
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return buf.Bytes()
}

func TestExtractTCPStream_Reassembles(t *testing.T) {
	capture := writeTestCapture(t, []testSegment{
		{srcPort: 12002, dstPort: 40000, seq: 999, syn: true},
		{srcPort: 12002, dstPort: 40000, seq: 1000, payload: []byte("hello ")},
		// host -> device
		{srcPort: 40000, dstPort: 12002, seq: 5, payload: []byte("ignored")},
		// retransmit
		{srcPort: 12002, dstPort: 40000, seq: 1000, payload: []byte("hello ")},
		// overlap
		{srcPort: 12002, dstPort: 40000, seq: 1003, payload: []byte("lo world")},
		// second connection
		{srcPort: 12002, dstPort: 40001, seq: 1, payload: []byte("other")},
	})

	data, err := ExtractTCPStream(bytes.NewReader(capture), DefaultPort)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestExtractTCPStream_MidConnection(t *testing.T) {
	capture := writeTestCapture(t, []testSegment{
		{srcPort: 12002, dstPort: 40000, seq: 77, payload: []byte("ab")},
		{srcPort: 12002, dstPort: 40000, seq: 79, payload: []byte("cd")},
	})

	data, err := ExtractTCPStream(bytes.NewReader(capture), DefaultPort)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(data))
}

func TestExtractTCPStream_Gap(t *testing.T) {
	capture := writeTestCapture(t, []testSegment{
		{srcPort: 12002, dstPort: 40000, seq: 10, payload: []byte("ab")},
		{srcPort: 12002, dstPort: 40000, seq: 20, payload: []byte("cd")},
	})

	_, err := ExtractTCPStream(bytes.NewReader(capture), DefaultPort)
	assert.True(t, errors.Is(err, ErrCaptureGap), "got %v", err)
}

func TestExtractTCPStream_NoTraffic(t *testing.T) {
	capture := writeTestCapture(t, []testSegment{
		{srcPort: 80, dstPort: 40000, seq: 1, payload: []byte("http")},
	})

	_, err := ExtractTCPStream(bytes.NewReader(capture), DefaultPort)
	assert.Error(t, err)
}

func TestExtractTCPStream_NotPcap(t *testing.T) {
	_, err := ExtractTCPStream(bytes.NewReader([]byte("definitely not a capture")), DefaultPort)
	assert.Error(t, err)
}

func TestOpenPCAPStream_MissingFile(t *testing.T) {
	_, err := OpenPCAPStream("/nonexistent/capture.pcap", DefaultPort)
	assert.Error(t, err)
}
