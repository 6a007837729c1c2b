package decoder

import (
	"fmt"

	"firestige.xyz/iexcap/internal/iex"
)

// DecodeMessage decodes one message block body into its typed form, selecting
// the layout from the leading type byte. Unrecognized tags return
// iex.ErrUnknownMessageType; the block is still well framed, so callers may
// skip it and keep reading.
func DecodeMessage(body []byte) (iex.Message, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty message body", iex.ErrBlockDecode)
	}

	switch iex.MessageType(body[0]) {
	case iex.TypeSystemEvent:
		return decodeSystemEvent(body)
	case iex.TypeSecurityDirectory:
		return decodeSecurityDirectory(body)
	case iex.TypeTradingStatus:
		return decodeTradingStatus(body)
	case iex.TypeOperationalHaltStatus:
		return decodeOperationalHaltStatus(body)
	case iex.TypeShortSalePriceTestStatus:
		return decodeShortSalePriceTestStatus(body)
	case iex.TypeQuoteUpdate:
		return decodeQuoteUpdate(body)
	case iex.TypeTradeReport, iex.TypeTradeBreak:
		return decodeTradeReport(body)
	case iex.TypeOfficialPrice:
		return decodeOfficialPrice(body)
	case iex.TypeAuctionInformation:
		return decodeAuctionInformation(body)
	case iex.TypePriceLevelUpdateBuy, iex.TypePriceLevelUpdateSell:
		return decodePriceLevelUpdate(body)
	case iex.TypeSecurityEvent:
		return decodeSecurityEvent(body)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", iex.ErrUnknownMessageType, body[0])
	}
}
