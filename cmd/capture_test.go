package cmd

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"

	"firestige.xyz/iexcap/internal/config"
)

// Timestamps from a real capture: 2018-01-27T13:00:15Z session.
const (
	testTimestamp = uint64(1517058017224122394)
	testSendTime  = uint64(1517058015909382289)
)

// segment frames message bodies as an IEX-TP packet payload: 40-byte header
// followed by one length-prefixed block per body. A nil body becomes a
// heartbeat block.
func segment(bodies ...[]byte) []byte {
	var blocks []byte
	for _, b := range bodies {
		blocks = binary.LittleEndian.AppendUint16(blocks, uint16(len(b)))
		blocks = append(blocks, b...)
	}

	p := make([]byte, 40, 40+len(blocks))
	p[0] = 1
	binary.LittleEndian.PutUint16(p[2:], 0x8003)
	binary.LittleEndian.PutUint32(p[4:], 1)
	binary.LittleEndian.PutUint32(p[8:], 1150681088)
	binary.LittleEndian.PutUint16(p[12:], uint16(len(blocks)))
	binary.LittleEndian.PutUint16(p[14:], uint16(len(bodies)))
	binary.LittleEndian.PutUint64(p[24:], 1)
	binary.LittleEndian.PutUint64(p[32:], testSendTime)
	return append(p, blocks...)
}

// messageBody assembles a body: tag at 0, code at 1, the shared timestamp at
// 2, the space-padded symbol at 10, and the given tail from offset 18 on.
func messageBody(tag, code byte, symbol string, tail ...byte) []byte {
	b := make([]byte, 18+len(tail))
	b[0] = tag
	b[1] = code
	binary.LittleEndian.PutUint64(b[2:10], testTimestamp)
	copy(b[10:18], "        ")
	copy(b[10:18], symbol)
	copy(b[18:], tail)
	return b
}

func quoteBody(symbol string) []byte {
	tail := make([]byte, 24)
	binary.LittleEndian.PutUint32(tail[0:], 100)    // bid size
	binary.LittleEndian.PutUint64(tail[4:], 40600)  // bid price 4.06
	binary.LittleEndian.PutUint64(tail[12:], 40700) // ask price 4.07
	binary.LittleEndian.PutUint32(tail[20:], 200)   // ask size
	return messageBody('Q', 0, symbol, tail...)
}

func tradeBody(tag byte, symbol string, id uint64) []byte {
	tail := make([]byte, 20)
	binary.LittleEndian.PutUint32(tail[0:], 75)    // size
	binary.LittleEndian.PutUint64(tail[4:], 40550) // price 4.055
	binary.LittleEndian.PutUint64(tail[12:], id)
	return messageBody(tag, 0, symbol, tail...)
}

// writeCapture wraps payloads in UDP frames and writes them to a pcap file.
func writeCapture(t *testing.T, payloads ...[]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for i, payload := range payloads {
		frame := buildFrame(t, payload)
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1517058015, 0).Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		require.NoError(t, w.WritePacket(ci, frame))
	}
	return path
}

// buildFrame serializes an ethernet/IPv4/UDP frame carrying payload.
func buildFrame(t *testing.T, payload []byte) []byte {
	t.Helper()

	eth := layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x0c, 0x29, 0xaa, 0xbb, 0xcc},
		DstMAC:       net.HardwareAddr{0x01, 0x00, 0x5e, 0x57, 0x15, 0x04},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP{10, 1, 2, 3},
		DstIP:    net.IP{233, 215, 21, 4},
	}
	udp := layers.UDP{SrcPort: 10378, DstPort: 10378}
	require.NoError(t, udp.SetNetworkLayerForChecksum(&ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	err := gopacket.SerializeLayers(buf, opts, &eth, &ip, &udp, gopacket.Payload(payload))
	require.NoError(t, err, "Failed to serialize UDP frame")
	return buf.Bytes()
}

// testConfig returns the default configuration.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}
