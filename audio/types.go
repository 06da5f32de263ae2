package audio

import (
	"errors"
)

// Sentinel errors
var (
	ErrInvalidNote   = errors.New("invalid note")
	ErrUnvoicedInput = errors.New("no usable fundamental in input")
	ErrEmptySample   = errors.New("empty sample buffer")
)
