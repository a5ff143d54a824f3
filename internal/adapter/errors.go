package adapter

import "errors"

var (
	ErrInvalidMode      = errors.New("adapter: exactly one transport mode must be selected")
	ErrAlreadyCapturing = errors.New("adapter: reproducer already initialized")
)
