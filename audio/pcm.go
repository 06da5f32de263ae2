package audio

import (
	"encoding/binary"

	"github.com/lixenwraith/midisampler/constant"
)

// EncodePCM16 converts frames to interleaved int16 LE bytes
// Mono buffers emit one sample per frame, stereo two
// Applies soft limiting before hard clip
func EncodePCM16(b Buffer) []byte {
	channels := 2
	if b.Format.NumChannels == 1 {
		channels = 1
	}
	out := make([]byte, len(b.Frames)*channels*2)
	idx := 0
	for _, f := range b.Frames {
		for c := 0; c < channels; c++ {
			binary.LittleEndian.PutUint16(out[idx:], uint16(toInt16(f[c])))
			idx += 2
		}
	}
	return out
}

// toInt16 maps [-1, 1] to int16 with a soft knee above SoftLimitKnee
func toInt16(v float64) int16 {
	const knee = constant.SoftLimitKnee
	// Soft limiter (tanh-style)
	if v > knee {
		v = knee + (1-knee)*(1.0-1.0/(1.0+(v-knee)*5.0))
	} else if v < -knee {
		v = -knee - (1-knee)*(1.0-1.0/(1.0+(-v-knee)*5.0))
	}

	// Hard clip
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}
