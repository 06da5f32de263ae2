package midi

import (
	"errors"
)

// Sentinel errors
var (
	ErrMissingTempo      = errors.New("no set_tempo event found")
	ErrInvalidTimeFormat = errors.New("unsupported MIDI time format")
	ErrUnsupportedKey    = errors.New("MIDI key outside playable range")
)
