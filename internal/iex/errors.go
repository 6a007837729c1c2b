// Package iex defines sentinel errors shared by the decode pipeline.
package iex

import "errors"

var (
	// ErrNotInitialized is returned when a decoder is used before a packet
	// source is attached.
	ErrNotInitialized = errors.New("iexcap: decoder not initialized")

	// ErrHeaderDecode is returned for a truncated segment header or an
	// unsupported transport version.
	ErrHeaderDecode = errors.New("iexcap: segment header decode failed")

	// ErrBlockDecode is returned for a message block that is recognized but
	// malformed: truncated body, block length overrunning the segment, or a
	// timestamp outside the valid range.
	ErrBlockDecode = errors.New("iexcap: message block decode failed")

	// ErrUnknownMessageType is returned for a well-framed block whose type
	// byte is not recognized. The stream cursor has already advanced past the
	// block, so callers may skip and continue.
	ErrUnknownMessageType = errors.New("iexcap: unknown message type")
)
