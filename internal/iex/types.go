// Package iex defines the IEX-TP transport and TOPS/DEEP message types with
// zero external dependencies.
package iex

import (
	"strconv"
	"time"
)

// MessageType is the one-byte tag at the start of every message block.
type MessageType uint8

const (
	TypeSystemEvent              MessageType = 0x53 // 'S'
	TypeSecurityDirectory        MessageType = 0x44 // 'D'
	TypeSecurityEvent            MessageType = 0x45 // 'E'
	TypeTradingStatus            MessageType = 0x48 // 'H'
	TypeOperationalHaltStatus    MessageType = 0x4f // 'O'
	TypeShortSalePriceTestStatus MessageType = 0x50 // 'P'
	TypeQuoteUpdate              MessageType = 0x51 // 'Q'
	TypeTradeReport              MessageType = 0x54 // 'T'
	TypeOfficialPrice            MessageType = 0x58 // 'X'
	TypeTradeBreak               MessageType = 0x42 // 'B'
	TypeAuctionInformation       MessageType = 0x41 // 'A'
	TypePriceLevelUpdateBuy      MessageType = 0x38 // '8'
	TypePriceLevelUpdateSell     MessageType = 0x35 // '5'
)

func (t MessageType) String() string {
	switch t {
	case TypeSystemEvent:
		return "SystemEvent"
	case TypeSecurityDirectory:
		return "SecurityDirectory"
	case TypeSecurityEvent:
		return "SecurityEvent"
	case TypeTradingStatus:
		return "TradingStatus"
	case TypeOperationalHaltStatus:
		return "OperationalHaltStatus"
	case TypeShortSalePriceTestStatus:
		return "ShortSalePriceTestStatus"
	case TypeQuoteUpdate:
		return "QuoteUpdate"
	case TypeTradeReport:
		return "TradeReport"
	case TypeOfficialPrice:
		return "OfficialPrice"
	case TypeTradeBreak:
		return "TradeBreak"
	case TypeAuctionInformation:
		return "AuctionInformation"
	case TypePriceLevelUpdateBuy:
		return "PriceLevelUpdateBuy"
	case TypePriceLevelUpdateSell:
		return "PriceLevelUpdateSell"
	}
	return "Unknown(0x" + strconv.FormatUint(uint64(t), 16) + ")"
}

// MarshalText renders the type name in JSON output.
func (t MessageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Price is a fixed-point price as carried on the wire: a signed 64-bit integer
// counting 1/10000ths of a currency unit.
type Price int64

// Float64 converts to currency units.
func (p Price) Float64() float64 {
	return float64(p) / 10000
}

func (p Price) String() string {
	return strconv.FormatFloat(p.Float64(), 'f', -1, 64)
}

// MarshalJSON emits the price as a plain decimal number.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// SegmentHeader is the 40-byte IEX-TP header at the start of every packet
// payload. One segment carries zero or more message blocks; a segment with
// PayloadLength 0 is a transport heartbeat.
type SegmentHeader struct {
	Version              uint8  `json:"version"`
	ProtocolID           uint16 `json:"protocol_id"`
	ChannelID            uint32 `json:"channel_id"`
	SessionID            uint32 `json:"session_id"`
	PayloadLength        uint16 `json:"payload_length"`
	MessageCount         uint16 `json:"message_count"`
	StreamOffset         uint64 `json:"stream_offset"`
	FirstMessageSequence uint64 `json:"first_message_sequence"`
	SendTime             uint64 `json:"send_time"`
}

// SentAt converts SendTime to wall-clock time.
func (h SegmentHeader) SentAt() time.Time {
	return time.Unix(0, int64(h.SendTime))
}

// Message is implemented by every decoded feed message. Consumers type-switch
// on the concrete variant for the per-type fields.
type Message interface {
	MessageType() MessageType
	Time() time.Time
}

// MessageBase holds the two fields every message variant shares on the wire:
// the type tag and the event timestamp.
type MessageBase struct {
	Type      MessageType `json:"type"`
	Timestamp uint64      `json:"timestamp"`
}

func (b MessageBase) MessageType() MessageType {
	return b.Type
}

// Time converts the wire timestamp (nanoseconds since epoch) to wall-clock
// time.
func (b MessageBase) Time() time.Time {
	return time.Unix(0, int64(b.Timestamp))
}

// SystemEventCode marks feed-wide session transitions.
type SystemEventCode uint8

const (
	StartOfMessages           SystemEventCode = 'O'
	StartOfSystemHours        SystemEventCode = 'S'
	StartOfRegularMarketHours SystemEventCode = 'R'
	EndOfRegularMarketHours   SystemEventCode = 'M'
	EndOfSystemHours          SystemEventCode = 'E'
	EndOfMessages             SystemEventCode = 'C'
)

func (c SystemEventCode) String() string {
	switch c {
	case StartOfMessages:
		return "StartOfMessages"
	case StartOfSystemHours:
		return "StartOfSystemHours"
	case StartOfRegularMarketHours:
		return "StartOfRegularMarketHours"
	case EndOfRegularMarketHours:
		return "EndOfRegularMarketHours"
	case EndOfSystemHours:
		return "EndOfSystemHours"
	case EndOfMessages:
		return "EndOfMessages"
	}
	return unknownCode(uint8(c))
}

// LULDTier is the limit-up/limit-down tier of a security.
type LULDTier uint8

const (
	LULDTierNotApplicable LULDTier = 0
	LULDTier1             LULDTier = 1
	LULDTier2             LULDTier = 2
)

func (t LULDTier) String() string {
	switch t {
	case LULDTierNotApplicable:
		return "NotApplicable"
	case LULDTier1:
		return "Tier1"
	case LULDTier2:
		return "Tier2"
	}
	return unknownCode(uint8(t))
}

// TradingStatusCode is the current trading state of a security.
type TradingStatusCode uint8

const (
	TradingHalted          TradingStatusCode = 'H'
	TradingOrderAcceptance TradingStatusCode = 'O'
	TradingPaused          TradingStatusCode = 'P'
	Trading                TradingStatusCode = 'T'
)

func (c TradingStatusCode) String() string {
	switch c {
	case TradingHalted:
		return "Halted"
	case TradingOrderAcceptance:
		return "OrderAcceptance"
	case TradingPaused:
		return "Paused"
	case Trading:
		return "Trading"
	}
	return unknownCode(uint8(c))
}

// OperationalHaltCode signals an IEX-specific operational halt.
type OperationalHaltCode uint8

const (
	OperationallyHalted    OperationalHaltCode = 'O'
	NotOperationallyHalted OperationalHaltCode = 'N'
)

func (c OperationalHaltCode) String() string {
	switch c {
	case OperationallyHalted:
		return "Halted"
	case NotOperationallyHalted:
		return "NotHalted"
	}
	return unknownCode(uint8(c))
}

// ShortSaleDetail qualifies a short sale price test status.
type ShortSaleDetail uint8

const (
	ShortSaleNoDetail     ShortSaleDetail = ' '
	ShortSaleActivated    ShortSaleDetail = 'A'
	ShortSaleContinued    ShortSaleDetail = 'C'
	ShortSaleDeactivated  ShortSaleDetail = 'D'
	ShortSaleNotAvailable ShortSaleDetail = 'N'
)

func (d ShortSaleDetail) String() string {
	switch d {
	case ShortSaleNoDetail:
		return "NoDetail"
	case ShortSaleActivated:
		return "Activated"
	case ShortSaleContinued:
		return "Continued"
	case ShortSaleDeactivated:
		return "Deactivated"
	case ShortSaleNotAvailable:
		return "NotAvailable"
	}
	return unknownCode(uint8(d))
}

// OfficialPriceType distinguishes the official opening and closing prints.
type OfficialPriceType uint8

const (
	OpeningPrice OfficialPriceType = 'Q'
	ClosingPrice OfficialPriceType = 'M'
)

func (t OfficialPriceType) String() string {
	switch t {
	case OpeningPrice:
		return "OpeningPrice"
	case ClosingPrice:
		return "ClosingPrice"
	}
	return unknownCode(uint8(t))
}

// AuctionType identifies the kind of auction an AuctionInformation message
// describes.
type AuctionType uint8

const (
	OpeningAuction    AuctionType = 'O'
	ClosingAuction    AuctionType = 'C'
	IPOAuction        AuctionType = 'I'
	HaltAuction       AuctionType = 'H'
	VolatilityAuction AuctionType = 'V'
)

func (t AuctionType) String() string {
	switch t {
	case OpeningAuction:
		return "Opening"
	case ClosingAuction:
		return "Closing"
	case IPOAuction:
		return "IPO"
	case HaltAuction:
		return "Halt"
	case VolatilityAuction:
		return "Volatility"
	}
	return unknownCode(uint8(t))
}

// ImbalanceSide is the side of the order imbalance in an auction.
type ImbalanceSide uint8

const (
	BuySideImbalance  ImbalanceSide = 'B'
	SellSideImbalance ImbalanceSide = 'S'
	NoImbalance       ImbalanceSide = 'N'
)

func (s ImbalanceSide) String() string {
	switch s {
	case BuySideImbalance:
		return "Buy"
	case SellSideImbalance:
		return "Sell"
	case NoImbalance:
		return "None"
	}
	return unknownCode(uint8(s))
}

// SecurityEventCode marks per-security session transitions.
type SecurityEventCode uint8

const (
	OpeningProcessComplete SecurityEventCode = 'O'
	ClosingProcessComplete SecurityEventCode = 'C'
)

func (c SecurityEventCode) String() string {
	switch c {
	case OpeningProcessComplete:
		return "OpeningProcessComplete"
	case ClosingProcessComplete:
		return "ClosingProcessComplete"
	}
	return unknownCode(uint8(c))
}

func unknownCode(b uint8) string {
	return "Unknown(0x" + strconv.FormatUint(uint64(b), 16) + ")"
}
