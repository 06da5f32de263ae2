package mixer

import (
	"errors"
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/midisampler/audio"
	"github.com/lixenwraith/midisampler/midi"
)

var errNoSample = errors.New("no sample")

// fakeSource returns the same constant sample for every note
type fakeSource struct {
	rate   int
	value  float64
	frames int
	fail   audio.Note
}

func newFakeSource() *fakeSource {
	return &fakeSource{rate: 1000, value: 0.1, frames: 100, fail: -1}
}

func (f *fakeSource) Format() beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(f.rate), NumChannels: 1, Precision: 2}
}

func (f *fakeSource) Sample(n audio.Note) (audio.Buffer, error) {
	if n == f.fail {
		return audio.Buffer{}, errNoSample
	}
	out := make([][2]float64, f.frames)
	for i := range out {
		out[i] = [2]float64{f.value, f.value}
	}
	return audio.NewBuffer(f.Format(), out), nil
}

func note(name string) audio.Note {
	n, err := audio.ParseNote(name)
	if err != nil {
		panic(err)
	}
	return n
}

func on(ch uint8, name string, ms float64) midi.NoteEvent {
	return midi.NoteEvent{Channel: ch, Kind: midi.On, Note: note(name), TimeMs: ms}
}

func off(ch uint8, name string, ms float64) midi.NoteEvent {
	return midi.NoteEvent{Channel: ch, Kind: midi.Off, Note: note(name), TimeMs: ms}
}

func sine(freq float64, rate, frames int) audio.Buffer {
	out := make([][2]float64, frames)
	for i := range out {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		out[i] = [2]float64{v, v}
	}
	return audio.NewBuffer(beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 1, Precision: 2}, out)
}
