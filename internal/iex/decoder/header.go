package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/iexcap/internal/iex"
)

// SegmentHeaderLen is the fixed size of the IEX-TP header at the start of
// every packet payload.
const SegmentHeaderLen = 40

// transportVersion is the only IEX-TP version this decoder accepts.
const transportVersion = 1

// DecodeSegmentHeader decodes the 40-byte transport header at the start of a
// packet payload.
func DecodeSegmentHeader(data []byte) (iex.SegmentHeader, error) {
	if len(data) < SegmentHeaderLen {
		return iex.SegmentHeader{}, fmt.Errorf("%w: payload has %d bytes, header needs %d",
			iex.ErrHeaderDecode, len(data), SegmentHeaderLen)
	}

	h := iex.SegmentHeader{
		Version: data[0],
		// byte 1 is reserved
		ProtocolID:           binary.LittleEndian.Uint16(data[2:4]),
		ChannelID:            binary.LittleEndian.Uint32(data[4:8]),
		SessionID:            binary.LittleEndian.Uint32(data[8:12]),
		PayloadLength:        binary.LittleEndian.Uint16(data[12:14]),
		MessageCount:         binary.LittleEndian.Uint16(data[14:16]),
		StreamOffset:         binary.LittleEndian.Uint64(data[16:24]),
		FirstMessageSequence: binary.LittleEndian.Uint64(data[24:32]),
		SendTime:             binary.LittleEndian.Uint64(data[32:40]),
	}

	if h.Version != transportVersion {
		return iex.SegmentHeader{}, fmt.Errorf("%w: unsupported transport version %d",
			iex.ErrHeaderDecode, h.Version)
	}
	return h, nil
}
