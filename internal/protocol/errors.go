package protocol

import "errors"

var (
	ErrInvalidHeader    = errors.New("protocol: invalid frame header")
	ErrInvalidLength    = errors.New("protocol: invalid payload length")
	ErrHeaderTooLarge   = errors.New("protocol: header block too large")
	ErrPayloadTooLarge  = errors.New("protocol: payload too large")
	ErrConnectionClosed = errors.New("protocol: connection closed mid-frame")
)
