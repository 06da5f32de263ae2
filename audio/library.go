package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/midisampler/constant"
)

// Library produces pitch-shifted copies of one base sample, one per note, on demand
// Shifting reinterprets the frames at a scaled rate then resamples back, so a higher
// note is also shorter
type Library struct {
	base     Buffer
	baseNote Note
	quality  int

	mu    sync.RWMutex
	store [constant.NoteCount]Buffer
	ready [constant.NoteCount]bool
	made  int
}

// NewLibrary creates a library around base, which sounds at baseNote
// quality is the beep.Resample quality, clamped to 1-64
func NewLibrary(base Buffer, baseNote Note, quality int) (*Library, error) {
	if base.Len() == 0 {
		return nil, ErrEmptySample
	}
	if !baseNote.Valid() {
		return nil, fmt.Errorf("%w: base %v", ErrInvalidNote, baseNote)
	}
	if base.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", base.Format.SampleRate)
	}
	return &Library{
		base:     base,
		baseNote: baseNote,
		quality:  clampInt(quality, constant.MinResampleQuality, constant.MaxResampleQuality),
	}, nil
}

// BaseNote returns the pitch of the unshifted sample
func (l *Library) BaseNote() Note { return l.baseNote }

// Format returns the output format shared by every generated sample
func (l *Library) Format() beep.Format { return l.base.Format }

// Sample returns the cached buffer for n or generates it
func (l *Library) Sample(n Note) (Buffer, error) {
	if !n.Valid() {
		return Buffer{}, fmt.Errorf("%w: %d", ErrInvalidNote, int(n))
	}

	l.mu.RLock()
	if l.ready[n] {
		buf := l.store[n]
		l.mu.RUnlock()
		return buf, nil
	}
	l.mu.RUnlock()

	// Generate and cache
	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if l.ready[n] {
		return l.store[n], nil
	}

	buf, err := l.shift(n)
	if err != nil {
		return Buffer{}, err
	}
	l.store[n] = buf
	l.ready[n] = true
	l.made++
	return buf, nil
}

// Preload generates the given notes, or every note when none are given
func (l *Library) Preload(notes ...Note) error {
	if len(notes) == 0 {
		notes = AllNotes()
	}
	for _, n := range notes {
		if _, err := l.Sample(n); err != nil {
			return err
		}
	}
	return nil
}

// Generated returns how many notes have been synthesized so far
func (l *Library) Generated() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.made
}

// shift resamples the base sample to sound at n
func (l *Library) shift(n Note) (Buffer, error) {
	if n == l.baseNote {
		return l.base.Slice(0, l.base.Len()), nil
	}

	semitones := constant.PitchClasses * math.Log2(n.Frequency()/l.baseNote.Frequency())
	rate := l.base.Format.SampleRate
	shifted := beep.SampleRate(int(float64(rate) * math.Pow(2, semitones/constant.PitchClasses)))
	if shifted < 1 {
		return Buffer{}, fmt.Errorf("%w: %v needs playback rate %d", ErrInvalidNote, n, shifted)
	}

	resampler := beep.Resample(l.quality, shifted, rate, l.base.Streamer())
	buf, err := Collect(resampler, l.base.Format)
	if err != nil {
		return Buffer{}, fmt.Errorf("shift to %v: %w", n, err)
	}
	return buf, nil
}
