package decoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"firestige.xyz/iexcap/internal/iex"
)

// PacketSource hands back successive packet payloads from a capture. The
// returned slice is only valid until the next call; implementations are free
// to recycle the buffer.
type PacketSource interface {
	// NextPayload returns the next packet's payload bytes, or io.EOF when the
	// capture is exhausted.
	NextPayload() ([]byte, error)
}

// Stats counts what a StreamDecoder has seen so far.
type Stats struct {
	Packets    uint64 // payloads fetched from the source
	Segments   uint64 // packets that carried at least one block
	Heartbeats uint64 // zero-length blocks absorbed
	Messages   uint64 // messages decoded successfully
	Unknown    uint64 // well-framed blocks with an unrecognized type byte
}

// StreamDecoder walks the segments of a capture in order and yields decoded
// messages one at a time. It owns the only mutable state in the decode path:
// the current payload and the block cursor within it. A StreamDecoder is not
// safe for concurrent use.
type StreamDecoder struct {
	src   PacketSource
	first iex.SegmentHeader
	last  iex.SegmentHeader
	stats Stats

	// Current segment; payload == nil means no active segment and the next
	// call fetches a new packet. The slice borrows the source's buffer, so
	// nothing derived from it survives past the next fetch except through
	// copies made during decode.
	payload []byte
	offset  int
}

// NewStreamDecoder attaches to a packet source and eagerly opens the
// capture's first segment so FirstHeader is available before any message is
// read. The first packet of a capture is routinely header-only.
func NewStreamDecoder(src PacketSource) (*StreamDecoder, error) {
	if src == nil {
		return nil, iex.ErrNotInitialized
	}
	d := &StreamDecoder{src: src}
	if err := d.openNext(); err != nil {
		return nil, fmt.Errorf("open first segment: %w", err)
	}
	d.first = d.last
	return d, nil
}

// FirstHeader returns the first packet's segment header.
func (d *StreamDecoder) FirstHeader() iex.SegmentHeader {
	return d.first
}

// LastHeader returns the most recently opened packet's segment header.
func (d *StreamDecoder) LastHeader() iex.SegmentHeader {
	return d.last
}

// Stats returns a snapshot of the decode counters.
func (d *StreamDecoder) Stats() Stats {
	return d.stats
}

// openNext fetches one packet payload and opens it as a segment. Header-only
// packets (transport heartbeats, the capture's first packet) leave the
// decoder without an active segment but still update the last header.
func (d *StreamDecoder) openNext() error {
	payload, err := d.src.NextPayload()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	d.stats.Packets++

	hdr, err := DecodeSegmentHeader(payload)
	if err != nil {
		return err
	}
	d.last = hdr

	if len(payload) <= SegmentHeaderLen || hdr.PayloadLength == 0 {
		d.payload, d.offset = nil, 0
		return nil
	}
	d.stats.Segments++
	d.payload = payload
	d.offset = SegmentHeaderLen
	return nil
}

// NextMessage returns the next decoded message in stream order. Heartbeats
// are absorbed transparently; io.EOF signals a cleanly exhausted capture. On
// iex.ErrUnknownMessageType the cursor has already advanced past the
// offending block, so callers may keep reading; structural errors
// (iex.ErrHeaderDecode, iex.ErrBlockDecode) invalidate the stream position
// and should end the read loop.
func (d *StreamDecoder) NextMessage() (iex.Message, error) {
	if d.src == nil {
		return nil, iex.ErrNotInitialized
	}

	for {
		if d.payload == nil {
			if err := d.openNext(); err != nil {
				return nil, err
			}
			continue
		}

		if d.offset+2 > len(d.payload) {
			d.payload = nil
			return nil, fmt.Errorf("%w: truncated block length prefix at offset %d",
				iex.ErrBlockDecode, d.offset)
		}
		blockLen := int(binary.LittleEndian.Uint16(d.payload[d.offset:]))
		if end := d.offset + 2 + blockLen; end > len(d.payload) {
			segLen := len(d.payload)
			d.payload = nil
			return nil, fmt.Errorf("%w: block of %d bytes at offset %d overruns segment of %d",
				iex.ErrBlockDecode, blockLen, d.offset, segLen)
		}

		body := d.payload[d.offset+2 : d.offset+2+blockLen]
		d.offset += 2 + blockLen
		if d.offset >= len(d.payload) {
			// Segment exhausted once this block is handled.
			d.payload = nil
		}

		if blockLen == 0 {
			d.stats.Heartbeats++
			continue
		}

		msg, err := DecodeMessage(body)
		if err != nil {
			if errors.Is(err, iex.ErrUnknownMessageType) {
				d.stats.Unknown++
			}
			return nil, err
		}
		d.stats.Messages++
		return msg, nil
	}
}
