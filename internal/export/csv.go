// Package export writes decoded feed messages to tabular and line-oriented
// outputs.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"firestige.xyz/iexcap/internal/iex"
	"firestige.xyz/iexcap/internal/metrics"
)

// QuoteCSVWriter writes quote updates as CSV rows.
type QuoteCSVWriter struct {
	w *csv.Writer
}

// NewQuoteCSVWriter writes the header row immediately so an empty export
// still yields a well-formed file.
func NewQuoteCSVWriter(w io.Writer) (*QuoteCSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Symbol", "BidSize", "BidPrice", "AskSize", "AskPrice"}); err != nil {
		return nil, fmt.Errorf("failed to write quote header: %w", err)
	}
	return &QuoteCSVWriter{w: cw}, nil
}

func (w *QuoteCSVWriter) Write(q *iex.QuoteUpdate) error {
	err := w.w.Write([]string{
		strconv.FormatUint(q.Timestamp, 10),
		q.Symbol,
		strconv.FormatUint(uint64(q.BidSize), 10),
		q.BidPrice.String(),
		strconv.FormatUint(uint64(q.AskSize), 10),
		q.AskPrice.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to write quote row: %w", err)
	}
	metrics.ExportRecordsTotal.WithLabelValues("quotes").Inc()
	return nil
}

// Flush writes buffered rows through to the underlying writer.
func (w *QuoteCSVWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// TradeCSVWriter writes executed trades as CSV rows.
type TradeCSVWriter struct {
	w *csv.Writer
}

func NewTradeCSVWriter(w io.Writer) (*TradeCSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Symbol", "Size", "Price", "TradeID"}); err != nil {
		return nil, fmt.Errorf("failed to write trade header: %w", err)
	}
	return &TradeCSVWriter{w: cw}, nil
}

func (w *TradeCSVWriter) Write(tr *iex.TradeReport) error {
	err := w.w.Write([]string{
		strconv.FormatUint(tr.Timestamp, 10),
		tr.Symbol,
		strconv.FormatUint(uint64(tr.Size), 10),
		tr.Price.String(),
		strconv.FormatUint(tr.TradeID, 10),
	})
	if err != nil {
		return fmt.Errorf("failed to write trade row: %w", err)
	}
	metrics.ExportRecordsTotal.WithLabelValues("trades").Inc()
	return nil
}

// Flush writes buffered rows through to the underlying writer.
func (w *TradeCSVWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
