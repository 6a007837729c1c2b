// Package models re-exports decoded message types for external use.
package models

import (
	"firestige.xyz/iexcap/internal/capture"
	"firestige.xyz/iexcap/internal/iex"
	"firestige.xyz/iexcap/internal/iex/decoder"
)

// Re-export message types for downstream consumers
type (
	Message       = iex.Message
	MessageType   = iex.MessageType
	MessageBase   = iex.MessageBase
	Price         = iex.Price
	SegmentHeader = iex.SegmentHeader

	SystemEvent              = iex.SystemEvent
	SecurityDirectory        = iex.SecurityDirectory
	TradingStatus            = iex.TradingStatus
	OperationalHaltStatus    = iex.OperationalHaltStatus
	ShortSalePriceTestStatus = iex.ShortSalePriceTestStatus
	QuoteUpdate              = iex.QuoteUpdate
	TradeReport              = iex.TradeReport
	OfficialPrice            = iex.OfficialPrice
	AuctionInformation       = iex.AuctionInformation
	PriceLevelUpdate         = iex.PriceLevelUpdate
	SecurityEvent            = iex.SecurityEvent

	SystemEventCode     = iex.SystemEventCode
	LULDTier            = iex.LULDTier
	TradingStatusCode   = iex.TradingStatusCode
	OperationalHaltCode = iex.OperationalHaltCode
	ShortSaleDetail     = iex.ShortSaleDetail
	OfficialPriceType   = iex.OfficialPriceType
	AuctionType         = iex.AuctionType
	ImbalanceSide       = iex.ImbalanceSide
	SecurityEventCode   = iex.SecurityEventCode
)

// Re-export capture and stream plumbing
type (
	PacketSource  = decoder.PacketSource
	StreamDecoder = decoder.StreamDecoder
	Stats         = decoder.Stats
	Source        = capture.Source
	SourceOptions = capture.Options
)

// Message type tags
const (
	TypeSystemEvent              = iex.TypeSystemEvent
	TypeSecurityDirectory        = iex.TypeSecurityDirectory
	TypeTradingStatus            = iex.TypeTradingStatus
	TypeOperationalHaltStatus    = iex.TypeOperationalHaltStatus
	TypeShortSalePriceTestStatus = iex.TypeShortSalePriceTestStatus
	TypeQuoteUpdate              = iex.TypeQuoteUpdate
	TypeTradeReport              = iex.TypeTradeReport
	TypeOfficialPrice            = iex.TypeOfficialPrice
	TypeTradeBreak               = iex.TypeTradeBreak
	TypeAuctionInformation       = iex.TypeAuctionInformation
	TypePriceLevelUpdateBuy      = iex.TypePriceLevelUpdateBuy
	TypePriceLevelUpdateSell     = iex.TypePriceLevelUpdateSell
	TypeSecurityEvent            = iex.TypeSecurityEvent
)

// Sentinel errors
var (
	ErrNotInitialized     = iex.ErrNotInitialized
	ErrHeaderDecode       = iex.ErrHeaderDecode
	ErrBlockDecode        = iex.ErrBlockDecode
	ErrUnknownMessageType = iex.ErrUnknownMessageType
)

// OpenCapture opens a pcap or pcapng capture file for reading.
func OpenCapture(path string, opts SourceOptions) (*Source, error) {
	return capture.Open(path, opts)
}

// NewStreamDecoder attaches a stream decoder to a packet source.
func NewStreamDecoder(src PacketSource) (*StreamDecoder, error) {
	return decoder.NewStreamDecoder(src)
}

// DecodeSegmentHeader decodes the 40-byte transport header at the start of a
// packet payload.
func DecodeSegmentHeader(payload []byte) (SegmentHeader, error) {
	return decoder.DecodeSegmentHeader(payload)
}

// DecodeMessage decodes a single message body, without transport framing.
func DecodeMessage(body []byte) (Message, error) {
	return decoder.DecodeMessage(body)
}
