package audio

import (
	"math"

	"github.com/gopxl/beep"
)

func monoFormat(rate int) beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 1, Precision: 2}
}

// sineBuffer builds a mono sine of amplitude 0.5
func sineBuffer(freq float64, rate, frames int) Buffer {
	out := make([][2]float64, frames)
	for i := range out {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		out[i] = [2]float64{v, v}
	}
	return NewBuffer(monoFormat(rate), out)
}

// constBuffer builds a mono buffer holding v in every frame
func constBuffer(v float64, rate, frames int) Buffer {
	out := make([][2]float64, frames)
	for i := range out {
		out[i] = [2]float64{v, v}
	}
	return NewBuffer(monoFormat(rate), out)
}

// rampBuffer builds a mono buffer where frame i holds i/frames
func rampBuffer(rate, frames int) Buffer {
	out := make([][2]float64, frames)
	for i := range out {
		v := float64(i) / float64(frames)
		out[i] = [2]float64{v, v}
	}
	return NewBuffer(monoFormat(rate), out)
}
