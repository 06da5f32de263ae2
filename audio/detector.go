package audio

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/lixenwraith/midisampler/constant"
)

// Detector estimates a buffer's fundamental with a magnitude-weighted frequency histogram
// Bins trade resolution for robustness against leakage and dominant overtones
type Detector struct {
	Bins int
}

// NewDetector creates a detector with the given histogram size, 0 selects the default
func NewDetector(bins int) *Detector {
	if bins <= 0 {
		bins = constant.HistogramBins
	}
	return &Detector{Bins: bins}
}

// Detect returns the note nearest to the detected fundamental
func (d *Detector) Detect(buf Buffer) (Note, error) {
	freq, err := d.DetectFrequency(buf)
	if err != nil {
		return 0, err
	}
	return FrequencyToNote(freq)
}

// DetectFrequency returns the midpoint of the heaviest histogram bin in Hz
func (d *Detector) DetectFrequency(buf Buffer) (float64, error) {
	n := buf.Len()
	rate := float64(buf.Format.SampleRate)
	if n < 2 || rate <= 0 {
		return 0, fmt.Errorf("%w: %d frames at %v Hz", ErrUnvoicedInput, n, rate)
	}

	bins := d.Bins
	if bins <= 0 {
		bins = constant.HistogramBins
	}

	spectrum := fft.FFTReal(buf.Mono())

	nyquist := rate / 2
	width := nyquist / float64(bins)
	hist := make([]float64, bins)

	// Positive frequencies only, k=0 (DC) and the mirrored half are dropped
	for k := 1; k <= n/2; k++ {
		freq := float64(k) * rate / float64(n)
		idx := int(freq / width)
		if idx >= bins {
			idx = bins - 1
		}
		hist[idx] += cmplx.Abs(spectrum[k])
	}

	best := 0
	for i := 1; i < bins; i++ {
		if hist[i] > hist[best] {
			best = i
		}
	}

	if hist[best] < constant.UnvoicedThreshold*float64(n) {
		return 0, fmt.Errorf("%w: peak weight %.3g", ErrUnvoicedInput, hist[best])
	}

	return (float64(best) + 0.5) * width, nil
}
