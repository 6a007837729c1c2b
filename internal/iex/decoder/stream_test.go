package decoder

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"firestige.xyz/iexcap/internal/iex"
)

const testSendTime = 1517058015909382289

// seg builds a packet payload: a 40-byte segment header followed by one
// length-prefixed block per body. A zero-length body becomes a heartbeat
// block.
func seg(bodies ...[]byte) []byte {
	var blocks []byte
	for _, b := range bodies {
		blocks = binary.LittleEndian.AppendUint16(blocks, uint16(len(b)))
		blocks = append(blocks, b...)
	}

	p := make([]byte, SegmentHeaderLen, SegmentHeaderLen+len(blocks))
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

// headerOnly is a 40-byte heartbeat packet: a header and no blocks.
func headerOnly() []byte {
	return seg()
}

// stubSource plays back a fixed sequence of payloads.
type stubSource struct {
	payloads [][]byte
	next     int
}

func (s *stubSource) NextPayload() ([]byte, error) {
	if s.next >= len(s.payloads) {
		return nil, io.EOF
	}
	p := s.payloads[s.next]
	s.next++
	return p, nil
}

func TestNewStreamDecoderNilSource(t *testing.T) {
	_, err := NewStreamDecoder(nil)
	if !errors.Is(err, iex.ErrNotInitialized) {
		t.Errorf("error %v, want ErrNotInitialized", err)
	}
}

func TestStreamDecoderZeroValue(t *testing.T) {
	var d StreamDecoder
	if _, err := d.NextMessage(); !errors.Is(err, iex.ErrNotInitialized) {
		t.Errorf("error %v, want ErrNotInitialized", err)
	}
}

func TestNewStreamDecoderEmptyCapture(t *testing.T) {
	_, err := NewStreamDecoder(&stubSource{})
	if err == nil {
		t.Fatal("expected error for empty capture, got nil")
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("error %v does not wrap io.EOF", err)
	}
}

func TestStreamDecoderFirstHeader(t *testing.T) {
	src := &stubSource{payloads: [][]byte{seg(quoteUpdateFixture)}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	hdr := d.FirstHeader()
	if hdr.Version != 1 {
		t.Errorf("Version = %d, want 1", hdr.Version)
	}
	if hdr.ProtocolID != 0x8003 {
		t.Errorf("ProtocolID = 0x%04x, want 0x8003", hdr.ProtocolID)
	}
	if hdr.PayloadLength != 44 {
		t.Errorf("PayloadLength = %d, want 44", hdr.PayloadLength)
	}
	if hdr.SendTime != testSendTime {
		t.Errorf("SendTime = %d, want %d", hdr.SendTime, uint64(testSendTime))
	}
}

func TestStreamDecoderHeaderOnlyFirstPacket(t *testing.T) {
	src := &stubSource{payloads: [][]byte{headerOnly(), seg(quoteUpdateFixture)}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	msg, err := d.NextMessage()
	if err != nil {
		t.Fatalf("NextMessage failed: %v", err)
	}
	if _, ok := msg.(*iex.QuoteUpdate); !ok {
		t.Errorf("message is %T, want *iex.QuoteUpdate", msg)
	}
	if _, err := d.NextMessage(); err != io.EOF {
		t.Errorf("error %v, want io.EOF", err)
	}
}

func TestStreamDecoderDrainsInOrder(t *testing.T) {
	trade := body(0x54, 0x00, cat(sym("AMD"), le32(100), le64(40600), le64(429974))...)
	src := &stubSource{payloads: [][]byte{
		seg(quoteUpdateFixture, trade),
		seg(quoteUpdateFixture),
	}}

	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	want := []iex.MessageType{iex.TypeQuoteUpdate, iex.TypeTradeReport, iex.TypeQuoteUpdate}
	for i, w := range want {
		msg, err := d.NextMessage()
		if err != nil {
			t.Fatalf("message %d: NextMessage failed: %v", i, err)
		}
		if msg.MessageType() != w {
			t.Errorf("message %d: type %v, want %v", i, msg.MessageType(), w)
		}
	}

	// io.EOF is sticky once the capture is drained.
	for i := 0; i < 2; i++ {
		if _, err := d.NextMessage(); err != io.EOF {
			t.Fatalf("after drain: error %v, want io.EOF", err)
		}
	}

	stats := d.Stats()
	if stats.Packets != 2 {
		t.Errorf("Packets = %d, want 2", stats.Packets)
	}
	if stats.Segments != 2 {
		t.Errorf("Segments = %d, want 2", stats.Segments)
	}
	if stats.Messages != 3 {
		t.Errorf("Messages = %d, want 3", stats.Messages)
	}
}

func TestStreamDecoderAbsorbsHeartbeatBlocks(t *testing.T) {
	src := &stubSource{payloads: [][]byte{seg(nil, quoteUpdateFixture)}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	msg, err := d.NextMessage()
	if err != nil {
		t.Fatalf("NextMessage failed: %v", err)
	}
	if _, ok := msg.(*iex.QuoteUpdate); !ok {
		t.Errorf("message is %T, want *iex.QuoteUpdate", msg)
	}
	if hb := d.Stats().Heartbeats; hb != 1 {
		t.Errorf("Heartbeats = %d, want 1", hb)
	}
}

func TestStreamDecoderAbsorbsHeartbeatPackets(t *testing.T) {
	src := &stubSource{payloads: [][]byte{
		seg(quoteUpdateFixture),
		headerOnly(),
		seg(quoteUpdateFixture),
	}}

	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := d.NextMessage(); err != nil {
			t.Fatalf("message %d: NextMessage failed: %v", i, err)
		}
	}
	if _, err := d.NextMessage(); err != io.EOF {
		t.Fatalf("after drain: error %v, want io.EOF", err)
	}

	stats := d.Stats()
	if stats.Packets != 3 {
		t.Errorf("Packets = %d, want 3", stats.Packets)
	}
	if stats.Segments != 2 {
		t.Errorf("Segments = %d, want 2", stats.Segments)
	}
}

func TestStreamDecoderSkipsUnknownType(t *testing.T) {
	unknown := make([]byte, len(quoteUpdateFixture))
	copy(unknown, quoteUpdateFixture)
	unknown[0] = 0x99

	src := &stubSource{payloads: [][]byte{seg(unknown, quoteUpdateFixture)}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	_, err = d.NextMessage()
	if !errors.Is(err, iex.ErrUnknownMessageType) {
		t.Fatalf("error %v, want ErrUnknownMessageType", err)
	}

	// The cursor has advanced past the bad block.
	msg, err := d.NextMessage()
	if err != nil {
		t.Fatalf("NextMessage after unknown type failed: %v", err)
	}
	if _, ok := msg.(*iex.QuoteUpdate); !ok {
		t.Errorf("message is %T, want *iex.QuoteUpdate", msg)
	}

	stats := d.Stats()
	if stats.Unknown != 1 {
		t.Errorf("Unknown = %d, want 1", stats.Unknown)
	}
	if stats.Messages != 1 {
		t.Errorf("Messages = %d, want 1", stats.Messages)
	}
}

func TestStreamDecoderBlockOverrun(t *testing.T) {
	p := seg(quoteUpdateFixture)
	// A length prefix claiming more bytes than the segment holds.
	binary.LittleEndian.PutUint16(p[SegmentHeaderLen:], 500)

	d, err := NewStreamDecoder(&stubSource{payloads: [][]byte{p}})
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	_, err = d.NextMessage()
	if err == nil {
		t.Fatal("expected error for overrunning block, got nil")
	}
	if !errors.Is(err, iex.ErrBlockDecode) {
		t.Errorf("error %v does not wrap ErrBlockDecode", err)
	}
}

func TestStreamDecoderTruncatedLengthPrefix(t *testing.T) {
	// 41 bytes: the header promises payload but only one byte follows, not
	// enough for a block length prefix.
	p := append(headerOnly(), 0x2a)
	binary.LittleEndian.PutUint16(p[12:], 1)

	d, err := NewStreamDecoder(&stubSource{payloads: [][]byte{p}})
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	_, err = d.NextMessage()
	if err == nil {
		t.Fatal("expected error for truncated length prefix, got nil")
	}
	if !errors.Is(err, iex.ErrBlockDecode) {
		t.Errorf("error %v does not wrap ErrBlockDecode", err)
	}
}

func TestStreamDecoderBadVersionMidStream(t *testing.T) {
	bad := seg(quoteUpdateFixture)
	bad[0] = 2

	src := &stubSource{payloads: [][]byte{seg(quoteUpdateFixture), bad}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	if _, err := d.NextMessage(); err != nil {
		t.Fatalf("first NextMessage failed: %v", err)
	}

	_, err = d.NextMessage()
	if !errors.Is(err, iex.ErrHeaderDecode) {
		t.Errorf("error %v, want ErrHeaderDecode", err)
	}
}

func TestStreamDecoderHeaderTracking(t *testing.T) {
	second := seg(quoteUpdateFixture)
	binary.LittleEndian.PutUint64(second[32:], testSendTime+2000000000)

	src := &stubSource{payloads: [][]byte{seg(quoteUpdateFixture), second}}
	d, err := NewStreamDecoder(src)
	if err != nil {
		t.Fatalf("NewStreamDecoder failed: %v", err)
	}

	if got := d.FirstHeader().SendTime; got != testSendTime {
		t.Errorf("FirstHeader().SendTime = %d, want %d", got, uint64(testSendTime))
	}

	for {
		if _, err := d.NextMessage(); err != nil {
			break
		}
	}

	if got := d.LastHeader().SendTime; got != testSendTime+2000000000 {
		t.Errorf("LastHeader().SendTime = %d, want %d", got, uint64(testSendTime+2000000000))
	}
	if got := d.FirstHeader().SendTime; got != testSendTime {
		t.Errorf("FirstHeader() changed to SendTime %d after reading", got)
	}
}

// loopSource replays the same payload forever.
type loopSource struct {
	payload []byte
}

func (s *loopSource) NextPayload() ([]byte, error) {
	return s.payload, nil
}

func BenchmarkNextMessage(b *testing.B) {
	d, err := NewStreamDecoder(&loopSource{payload: seg(quoteUpdateFixture)})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.NextMessage(); err != nil {
			b.Fatal(err)
		}
	}
}
