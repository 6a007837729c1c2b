package iex

import "fmt"

// SystemEvent marks feed-wide session boundaries (start/end of messages,
// system hours, regular market hours).
type SystemEvent struct {
	MessageBase
	Event SystemEventCode `json:"event"`
}

func (m *SystemEvent) String() string {
	return fmt.Sprintf("SystemEvent %d %s", m.Timestamp, m.Event)
}

// SecurityDirectory announces a tradeable security and its reference data.
type SecurityDirectory struct {
	MessageBase
	Flags            uint8    `json:"flags"`
	Symbol           string   `json:"symbol"`
	RoundLotSize     uint32   `json:"round_lot_size"`
	AdjustedPOCPrice Price    `json:"adjusted_poc_price"`
	LULDTier         LULDTier `json:"luld_tier"`
}

// TestSecurity reports whether the symbol is a test listing.
func (m *SecurityDirectory) TestSecurity() bool { return m.Flags&0x80 != 0 }

// WhenIssued reports whether the symbol trades on a when-issued basis.
func (m *SecurityDirectory) WhenIssued() bool { return m.Flags&0x40 != 0 }

// ETP reports whether the symbol is an exchange-traded product.
func (m *SecurityDirectory) ETP() bool { return m.Flags&0x20 != 0 }

func (m *SecurityDirectory) String() string {
	return fmt.Sprintf("SecurityDirectory %d %s lot=%d poc=%s luld=%s",
		m.Timestamp, m.Symbol, m.RoundLotSize, m.AdjustedPOCPrice, m.LULDTier)
}

// TradingStatus reports the trading state of a security together with a
// four-character reason code.
type TradingStatus struct {
	MessageBase
	Status TradingStatusCode `json:"status"`
	Symbol string            `json:"symbol"`
	Reason string            `json:"reason"`
}

func (m *TradingStatus) String() string {
	return fmt.Sprintf("TradingStatus %d %s %s reason=%q", m.Timestamp, m.Symbol, m.Status, m.Reason)
}

// OperationalHaltStatus reports an IEX-specific operational halt on a
// security.
type OperationalHaltStatus struct {
	MessageBase
	Status OperationalHaltCode `json:"status"`
	Symbol string              `json:"symbol"`
}

func (m *OperationalHaltStatus) String() string {
	return fmt.Sprintf("OperationalHaltStatus %d %s %s", m.Timestamp, m.Symbol, m.Status)
}

// ShortSalePriceTestStatus reports Reg SHO short sale price test state for a
// security.
type ShortSalePriceTestStatus struct {
	MessageBase
	InEffect bool            `json:"in_effect"`
	Symbol   string          `json:"symbol"`
	Detail   ShortSaleDetail `json:"detail"`
}

func (m *ShortSalePriceTestStatus) String() string {
	return fmt.Sprintf("ShortSalePriceTestStatus %d %s in_effect=%t %s",
		m.Timestamp, m.Symbol, m.InEffect, m.Detail)
}

// QuoteUpdate carries IEX's best bid and offer for a security.
type QuoteUpdate struct {
	MessageBase
	Flags    uint8  `json:"flags"`
	Symbol   string `json:"symbol"`
	BidSize  uint32 `json:"bid_size"`
	BidPrice Price  `json:"bid_price"`
	AskSize  uint32 `json:"ask_size"`
	AskPrice Price  `json:"ask_price"`
}

// SymbolUnavailable reports whether the symbol is not available for trading.
func (m *QuoteUpdate) SymbolUnavailable() bool { return m.Flags&0x80 != 0 }

// OutsideRegularHours reports whether the quote is from outside regular
// market hours.
func (m *QuoteUpdate) OutsideRegularHours() bool { return m.Flags&0x40 != 0 }

func (m *QuoteUpdate) String() string {
	return fmt.Sprintf("QuoteUpdate %d %s bid %d@%s ask %d@%s",
		m.Timestamp, m.Symbol, m.BidSize, m.BidPrice, m.AskSize, m.AskPrice)
}

// TradeReport is an executed trade on IEX. The same layout carries trade
// breaks; Type distinguishes them (TypeTradeReport vs TypeTradeBreak).
type TradeReport struct {
	MessageBase
	SaleCondition uint8  `json:"sale_condition"`
	Symbol        string `json:"symbol"`
	Size          uint32 `json:"size"`
	Price         Price  `json:"price"`
	TradeID       uint64 `json:"trade_id"`
}

// IntermarketSweep reports the ISO sale condition bit.
func (m *TradeReport) IntermarketSweep() bool { return m.SaleCondition&0x80 != 0 }

// ExtendedHours reports whether the trade printed outside regular hours.
func (m *TradeReport) ExtendedHours() bool { return m.SaleCondition&0x40 != 0 }

// OddLot reports whether the trade was an odd lot.
func (m *TradeReport) OddLot() bool { return m.SaleCondition&0x20 != 0 }

// TradeThroughExempt reports the Rule 611 exemption bit.
func (m *TradeReport) TradeThroughExempt() bool { return m.SaleCondition&0x10 != 0 }

// SinglePriceCross reports whether the trade came from a single-price cross.
func (m *TradeReport) SinglePriceCross() bool { return m.SaleCondition&0x08 != 0 }

func (m *TradeReport) String() string {
	return fmt.Sprintf("%s %d %s %d@%s id=%d",
		m.Type, m.Timestamp, m.Symbol, m.Size, m.Price, m.TradeID)
}

// OfficialPrice is the official opening or closing price of a security.
type OfficialPrice struct {
	MessageBase
	PriceType OfficialPriceType `json:"price_type"`
	Symbol    string            `json:"symbol"`
	Price     Price             `json:"price"`
}

func (m *OfficialPrice) String() string {
	return fmt.Sprintf("OfficialPrice %d %s %s %s", m.Timestamp, m.Symbol, m.PriceType, m.Price)
}

// AuctionInformation describes the state of an upcoming or running auction.
type AuctionInformation struct {
	MessageBase
	AuctionType              AuctionType   `json:"auction_type"`
	Symbol                   string        `json:"symbol"`
	PairedShares             uint32        `json:"paired_shares"`
	ReferencePrice           Price         `json:"reference_price"`
	IndicativeClearingPrice  Price         `json:"indicative_clearing_price"`
	ImbalanceShares          uint32        `json:"imbalance_shares"`
	ImbalanceSide            ImbalanceSide `json:"imbalance_side"`
	ExtensionNumber          uint8         `json:"extension_number"`
	ScheduledAuctionTime     uint32        `json:"scheduled_auction_time"`
	AuctionBookClearingPrice Price         `json:"auction_book_clearing_price"`
	CollarReferencePrice     Price         `json:"collar_reference_price"`
	LowerAuctionCollar       Price         `json:"lower_auction_collar"`
	UpperAuctionCollar       Price         `json:"upper_auction_collar"`
}

func (m *AuctionInformation) String() string {
	return fmt.Sprintf("AuctionInformation %d %s %s paired=%d ref=%s indicative=%s imbalance=%d/%s",
		m.Timestamp, m.Symbol, m.AuctionType, m.PairedShares,
		m.ReferencePrice, m.IndicativeClearingPrice, m.ImbalanceShares, m.ImbalanceSide)
}

// PriceLevelUpdate is a DEEP order-book level change. Type carries the side
// (TypePriceLevelUpdateBuy vs TypePriceLevelUpdateSell); a Size of 0 deletes
// the level.
type PriceLevelUpdate struct {
	MessageBase
	EventFlags uint8  `json:"event_flags"`
	Symbol     string `json:"symbol"`
	Size       uint32 `json:"size"`
	Price      Price  `json:"price"`
}

// EventProcessingComplete reports whether the book is consistent again after
// this update.
func (m *PriceLevelUpdate) EventProcessingComplete() bool { return m.EventFlags&0x01 != 0 }

func (m *PriceLevelUpdate) String() string {
	return fmt.Sprintf("%s %d %s %d@%s", m.Type, m.Timestamp, m.Symbol, m.Size, m.Price)
}

// SecurityEvent marks per-security opening/closing process completion.
type SecurityEvent struct {
	MessageBase
	Event  SecurityEventCode `json:"event"`
	Symbol string            `json:"symbol"`
}

func (m *SecurityEvent) String() string {
	return fmt.Sprintf("SecurityEvent %d %s %s", m.Timestamp, m.Symbol, m.Event)
}
