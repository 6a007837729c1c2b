// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CapturePacketsTotal counts UDP payloads handed to the decoder
	CapturePacketsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iexcap_capture_packets_total",
			Help: "Total number of UDP payloads read from the capture",
		},
	)

	// CaptureSkippedTotal counts frames dropped before transport decode
	CaptureSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iexcap_capture_skipped_total",
			Help: "Total number of frames skipped before transport decode",
		},
		[]string{"reason"},
	)

	// DecodeSegmentsTotal counts segments that carried message blocks
	DecodeSegmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iexcap_decode_segments_total",
			Help: "Total number of segments carrying at least one block",
		},
	)

	// DecodeHeartbeatsTotal counts transport heartbeats absorbed
	DecodeHeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iexcap_decode_heartbeats_total",
			Help: "Total number of heartbeat blocks absorbed",
		},
	)

	// DecodeMessagesTotal counts decoded messages by type
	DecodeMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iexcap_decode_messages_total",
			Help: "Total number of messages decoded",
		},
		[]string{"type"},
	)

	// DecodeErrorsTotal counts decode failures by kind
	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iexcap_decode_errors_total",
			Help: "Total number of decode errors",
		},
		[]string{"kind"},
	)

	// ExportRecordsTotal counts records written by the exporter
	ExportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iexcap_export_records_total",
			Help: "Total number of records written by the exporter",
		},
		[]string{"table"},
	)
)

// Error kind labels for DecodeErrorsTotal.
const (
	ErrorKindHeader  = "header"
	ErrorKindBlock   = "block"
	ErrorKindUnknown = "unknown_type"
)
