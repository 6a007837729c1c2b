package decoder

import (
	"fmt"

	"firestige.xyz/iexcap/internal/iex"
)

// Message timestamp sanity bounds, exclusive: after 2013-10-25T00:00:00Z
// (IEX began trading in late 2013) and before 2100-01-01T00:00:00Z.
const (
	minMessageTime = 1382659200000000000
	maxMessageTime = 4102444800000000000
)

func validateTimestamp(ts uint64) error {
	if ts <= minMessageTime || ts >= maxMessageTime {
		return fmt.Errorf("%w: timestamp %d outside valid range", iex.ErrBlockDecode, ts)
	}
	return nil
}

// messageBase reads the fields every variant shares: type tag at offset 0 and
// timestamp at offset 2 (offset 1 is the per-variant code/flag byte).
func messageBase(v *view) iex.MessageBase {
	return iex.MessageBase{
		Type:      iex.MessageType(v.uint8At(0)),
		Timestamp: v.uint64At(2),
	}
}

// finish runs the checks shared by every decode routine: all field reads were
// in bounds, and the timestamp is sane.
func finish(v *view, base iex.MessageBase) error {
	if v.err != nil {
		return v.err
	}
	return validateTimestamp(base.Timestamp)
}

func decodeSystemEvent(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.SystemEvent{
		MessageBase: messageBase(v),
		Event:       iex.SystemEventCode(v.uint8At(1)),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSecurityDirectory(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.SecurityDirectory{
		MessageBase:      messageBase(v),
		Flags:            v.uint8At(1),
		Symbol:           v.textAt(10, 8),
		RoundLotSize:     v.uint32At(18),
		AdjustedPOCPrice: v.priceAt(22),
		LULDTier:         iex.LULDTier(v.uint8At(30)),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeTradingStatus(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.TradingStatus{
		MessageBase: messageBase(v),
		Status:      iex.TradingStatusCode(v.uint8At(1)),
		Symbol:      v.textAt(10, 8),
		Reason:      v.textAt(18, 4),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeOperationalHaltStatus(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.OperationalHaltStatus{
		MessageBase: messageBase(v),
		Status:      iex.OperationalHaltCode(v.uint8At(1)),
		Symbol:      v.textAt(10, 8),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeShortSalePriceTestStatus(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.ShortSalePriceTestStatus{
		MessageBase: messageBase(v),
		InEffect:    v.uint8At(1) != 0,
		Symbol:      v.textAt(10, 8),
		Detail:      iex.ShortSaleDetail(v.uint8At(18)),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

// decodeQuoteUpdate reads the quirky TOPS quote layout: bid size/price are
// contiguous at 18/22, but the ask side is price-then-size at 30/38.
func decodeQuoteUpdate(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.QuoteUpdate{
		MessageBase: messageBase(v),
		Flags:       v.uint8At(1),
		Symbol:      v.textAt(10, 8),
		BidSize:     v.uint32At(18),
		BidPrice:    v.priceAt(22),
		AskPrice:    v.priceAt(30),
		AskSize:     v.uint32At(38),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

// decodeTradeReport handles both trade reports and trade breaks; the two
// share one layout and the result keeps the tag it arrived with.
func decodeTradeReport(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.TradeReport{
		MessageBase:   messageBase(v),
		SaleCondition: v.uint8At(1),
		Symbol:        v.textAt(10, 8),
		Size:          v.uint32At(18),
		Price:         v.priceAt(22),
		TradeID:       v.uint64At(30),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeOfficialPrice(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.OfficialPrice{
		MessageBase: messageBase(v),
		PriceType:   iex.OfficialPriceType(v.uint8At(1)),
		Symbol:      v.textAt(10, 8),
		Price:       v.priceAt(18),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeAuctionInformation(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.AuctionInformation{
		MessageBase:              messageBase(v),
		AuctionType:              iex.AuctionType(v.uint8At(1)),
		Symbol:                   v.textAt(10, 8),
		PairedShares:             v.uint32At(18),
		ReferencePrice:           v.priceAt(22),
		IndicativeClearingPrice:  v.priceAt(30),
		ImbalanceShares:          v.uint32At(38),
		ImbalanceSide:            iex.ImbalanceSide(v.uint8At(42)),
		ExtensionNumber:          v.uint8At(43),
		ScheduledAuctionTime:     v.uint32At(44),
		AuctionBookClearingPrice: v.priceAt(48),
		CollarReferencePrice:     v.priceAt(56),
		LowerAuctionCollar:       v.priceAt(64),
		UpperAuctionCollar:       v.priceAt(72),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

// decodePriceLevelUpdate handles both book sides; the result keeps the tag it
// arrived with (0x38 buy, 0x35 sell).
func decodePriceLevelUpdate(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.PriceLevelUpdate{
		MessageBase: messageBase(v),
		EventFlags:  v.uint8At(1),
		Symbol:      v.textAt(10, 8),
		Size:        v.uint32At(18),
		Price:       v.priceAt(22),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSecurityEvent(body []byte) (iex.Message, error) {
	v := newView(body)
	m := &iex.SecurityEvent{
		MessageBase: messageBase(v),
		Event:       iex.SecurityEventCode(v.uint8At(1)),
		Symbol:      v.textAt(10, 8),
	}
	if err := finish(v, m.MessageBase); err != nil {
		return nil, err
	}
	return m, nil
}
