package cmd

import (
	"errors"
	"fmt"
	"io"

	"firestige.xyz/iexcap/internal/capture"
	"firestige.xyz/iexcap/internal/config"
	"firestige.xyz/iexcap/internal/iex"
	"firestige.xyz/iexcap/internal/iex/decoder"
	"firestige.xyz/iexcap/internal/log"
	"firestige.xyz/iexcap/internal/metrics"
)

// openStream opens a capture file and attaches a stream decoder to it. The
// caller owns closing the returned source.
func openStream(path string, cfg *config.Config) (*capture.Source, *decoder.StreamDecoder, error) {
	src, err := capture.Open(path, capture.Options{UDPPort: cfg.Capture.UDPPort})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open capture %s: %w", path, err)
	}
	dec, err := decoder.NewStreamDecoder(src)
	if err != nil {
		src.Close()
		return nil, nil, fmt.Errorf("failed to read capture %s: %w", path, err)
	}
	return src, dec, nil
}

// drainMessages reads every remaining message in stream order, applying the
// configured unknown-type policy. The callback may stop the drain early by
// returning an error, which is passed through unchanged.
func drainMessages(dec *decoder.StreamDecoder, cfg *config.Config, fn func(iex.Message) error) error {
	logger := log.GetLogger()
	for {
		msg, err := dec.NextMessage()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, iex.ErrUnknownMessageType):
				metrics.DecodeErrorsTotal.WithLabelValues(metrics.ErrorKindUnknown).Inc()
				if cfg.Decoder.OnUnknown == "fail" {
					return err
				}
				logger.WithError(err).Debug("skipping unknown message type")
				continue
			case errors.Is(err, iex.ErrHeaderDecode):
				metrics.DecodeErrorsTotal.WithLabelValues(metrics.ErrorKindHeader).Inc()
				return err
			default:
				metrics.DecodeErrorsTotal.WithLabelValues(metrics.ErrorKindBlock).Inc()
				return err
			}
		}
		metrics.DecodeMessagesTotal.WithLabelValues(msg.MessageType().String()).Inc()
		if err := fn(msg); err != nil {
			return err
		}
	}
}

// recordStreamMetrics pushes the decoder's final counters into Prometheus.
// Per-message and per-error counters are updated live in drainMessages;
// segment and heartbeat totals are only known from the decoder's stats.
func recordStreamMetrics(stats decoder.Stats) {
	metrics.DecodeSegmentsTotal.Add(float64(stats.Segments))
	metrics.DecodeHeartbeatsTotal.Add(float64(stats.Heartbeats))
}
