// Package capture reads UDP payloads out of pcap and pcapng capture files.
package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/iexcap/internal/iex/decoder"
	"firestige.xyz/iexcap/internal/log"
	"firestige.xyz/iexcap/internal/metrics"
)

// ngMagic is the pcapng section header block type. Classic pcap files start
// with 0xa1b2c3d4 / 0xd4c3b2a1 (or the nanosecond variants) instead.
const ngMagic = 0x0a0d0d0a

// Options controls how a capture is opened.
type Options struct {
	// UDPPort keeps only packets with this source or destination port.
	// 0 accepts every UDP packet.
	UDPPort int
}

// packetReader is the part of pcapgo's Reader and NgReader the source uses.
type packetReader interface {
	ZeroCopyReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source reads UDP payloads from a capture file in order. It implements
// decoder.PacketSource: the returned payload borrows the reader's buffer and
// is only valid until the next call. A Source is not safe for concurrent use.
type Source struct {
	f      *os.File
	r      packetReader
	filter *Filter

	parser  *gopacket.DecodingLayerParser
	eth     layers.Ethernet
	ip4     layers.IPv4
	ip6     layers.IPv6
	udp     layers.UDP
	payload gopacket.Payload
	decoded []gopacket.LayerType
}

var _ decoder.PacketSource = (*Source)(nil)

// Open opens a pcap or pcapng capture file. The format is sniffed from the
// file magic.
func Open(path string, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}

	br := bufio.NewReaderSize(f, 1<<20)
	magic, err := br.Peek(4)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to sniff capture format: %w", err)
	}

	var r packetReader
	if binary.LittleEndian.Uint32(magic) == ngMagic {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open capture %s: %w", path, err)
	}

	first, err := firstLayer(r.LinkType())
	if err != nil {
		f.Close()
		return nil, err
	}

	s := &Source{f: f, r: r}
	s.parser = gopacket.NewDecodingLayerParser(
		first,
		&s.eth,
		&s.ip4,
		&s.ip6,
		&s.udp,
		&s.payload,
	)
	s.parser.IgnoreUnsupported = true

	if opts.UDPPort != 0 {
		// The filter program assumes ethernet framing.
		if r.LinkType() != layers.LinkTypeEthernet {
			f.Close()
			return nil, fmt.Errorf("udp port filter requires an ethernet capture, got link type %v", r.LinkType())
		}
		filter, err := NewUDPPortFilter(opts.UDPPort)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.filter = filter
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"path":      path,
		"link_type": r.LinkType().String(),
	}).Debug("capture opened")

	return s, nil
}

// firstLayer maps the capture's link type to the first decoding layer.
func firstLayer(link layers.LinkType) (gopacket.LayerType, error) {
	switch link {
	case layers.LinkTypeEthernet:
		return layers.LayerTypeEthernet, nil
	case layers.LinkTypeRaw, layers.LinkTypeIPv4:
		return layers.LayerTypeIPv4, nil
	case layers.LinkTypeIPv6:
		return layers.LayerTypeIPv6, nil
	}
	return 0, fmt.Errorf("unsupported link type: %v", link)
}

// NextPayload returns the next UDP payload in capture order, or io.EOF once
// the capture is exhausted. Frames that are not UDP, or that the port filter
// rejects, are skipped.
func (s *Source) NextPayload() ([]byte, error) {
	for {
		data, _, err := s.r.ZeroCopyReadPacketData()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read packet: %w", err)
		}

		if s.filter != nil && !s.filter.Match(data) {
			metrics.CaptureSkippedTotal.WithLabelValues("filtered").Inc()
			continue
		}

		s.decoded = s.decoded[:0]
		if err := s.parser.DecodeLayers(data, &s.decoded); err != nil {
			metrics.CaptureSkippedTotal.WithLabelValues("malformed").Inc()
			if l := log.GetLogger(); l.IsDebugEnabled() {
				l.WithError(err).Debug("skipping undecodable frame")
			}
			continue
		}

		if !s.sawUDP() {
			metrics.CaptureSkippedTotal.WithLabelValues("non_udp").Inc()
			continue
		}

		metrics.CapturePacketsTotal.Inc()
		return s.udp.Payload, nil
	}
}

func (s *Source) sawUDP() bool {
	for _, lt := range s.decoded {
		if lt == layers.LayerTypeUDP {
			return true
		}
	}
	return false
}

// LinkType returns the capture's link type.
func (s *Source) LinkType() layers.LinkType {
	return s.r.LinkType()
}

// Close closes the underlying file.
func (s *Source) Close() error {
	return s.f.Close()
}
