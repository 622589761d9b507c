package models

import "errors"

var (
	ErrOutOfOrderSample   = errors.New("sample timestamp precedes last stored sample")
	ErrInvalidSample      = errors.New("invalid sample")
	ErrDuplicateIndicator = errors.New("indicator already registered")
	ErrNotReady           = errors.New("indicator not ready")
	ErrInvalidSymbol      = errors.New("invalid symbol")
)
