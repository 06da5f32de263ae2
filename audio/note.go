package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lixenwraith/midisampler/constant"
)

// Note is an equal-tempered pitch, index 0 = C0 .. 107 = B8
type Note int

var pitchClassNames = [constant.PitchClasses]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// c0 is the frequency of Note 0 derived from A4
var c0 = constant.ReferenceA4 * math.Pow(2, constant.C0Offset)

// NoteFrequencies contains precomputed frequencies for all notes
var NoteFrequencies [constant.NoteCount]float64

func init() {
	for i := range NoteFrequencies {
		NoteFrequencies[i] = c0 * math.Pow(2, float64(i)/constant.PitchClasses)
	}
}

// NewNote builds a note from pitch class (0-11) and octave (0-8)
func NewNote(pitchClass, octave int) (Note, error) {
	if pitchClass < 0 || pitchClass >= constant.PitchClasses {
		return 0, fmt.Errorf("%w: pitch class %d", ErrInvalidNote, pitchClass)
	}
	if octave < 0 || octave >= constant.Octaves {
		return 0, fmt.Errorf("%w: octave %d", ErrInvalidNote, octave)
	}
	return Note(octave*constant.PitchClasses + pitchClass), nil
}

// ParseNote parses names like "A4" or "C#0"
func ParseNote(name string) (Note, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	split := len(name) - 1
	for split > 0 && name[split-1] >= '0' && name[split-1] <= '9' {
		split--
	}
	class, octStr := strings.ToUpper(name[:split]), name[split:]

	octave, err := strconv.Atoi(octStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	for i, c := range pitchClassNames {
		if c == class {
			return NewNote(i, octave)
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
}

// MIDIKeyToNote maps MIDI key numbers, key 12 = C0, key 69 = A4
func MIDIKeyToNote(key int) (Note, error) {
	return NewNote(key%constant.PitchClasses, key/constant.PitchClasses-1)
}

// FrequencyToNote returns the nearest note to freq
func FrequencyToNote(freq float64) (Note, error) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, fmt.Errorf("%w: frequency %v", ErrInvalidNote, freq)
	}
	h := int(math.Round(constant.PitchClasses * math.Log2(freq/c0)))
	octave := floorDiv(h, constant.PitchClasses)
	class := h - octave*constant.PitchClasses

	n, err := NewNote(class, octave)
	if err != nil {
		return 0, fmt.Errorf("%w: %.2f Hz is out of range", ErrInvalidNote, freq)
	}
	return n, nil
}

// AllNotes returns every note in ascending pitch order
func AllNotes() []Note {
	notes := make([]Note, constant.NoteCount)
	for i := range notes {
		notes[i] = Note(i)
	}
	return notes
}

// Valid reports whether n is inside the 108-note domain
func (n Note) Valid() bool {
	return n >= 0 && int(n) < constant.NoteCount
}

func (n Note) PitchClass() int { return int(n) % constant.PitchClasses }

func (n Note) Octave() int { return int(n) / constant.PitchClasses }

// Frequency returns Hz, or 0 for an invalid note
func (n Note) Frequency() float64 {
	if !n.Valid() {
		return 0
	}
	return NoteFrequencies[n]
}

func (n Note) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Note(%d)", int(n))
	}
	return pitchClassNames[n.PitchClass()] + strconv.Itoa(n.Octave())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
