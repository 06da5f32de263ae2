package mixer

import (
	"errors"
	"fmt"
	"log"

	"github.com/lixenwraith/midisampler/audio"
	"github.com/lixenwraith/midisampler/midi"
)

// Instrument is a sample library built around a detected base pitch
type Instrument struct {
	Library       *audio.Library
	BaseNote      audio.Note
	BaseFrequency float64
}

// Result is the output of one render
type Result struct {
	Buffer     audio.Buffer
	Instrument *Instrument
	Tempo      uint32
	DurationMs float64
	Timeline   midi.Timeline
	Report     *Report
}

// NewInstrument detects the sample's pitch and wraps it in a library
func NewInstrument(sample audio.Buffer, cfg *Config) (*Instrument, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sample.Len() == 0 {
		return nil, audio.ErrEmptySample
	}

	freq, err := audio.NewDetector(cfg.HistogramBins).DetectFrequency(sample)
	if err != nil {
		return nil, fmt.Errorf("detect pitch: %w", err)
	}
	note, err := audio.FrequencyToNote(freq)
	if err != nil {
		return nil, fmt.Errorf("detect pitch: %w", err)
	}
	log.Printf("instrument: detected %.2f Hz, base note %v", freq, note)

	lib, err := audio.NewLibrary(sample, note, cfg.ResampleQuality)
	if err != nil {
		return nil, err
	}
	return &Instrument{Library: lib, BaseNote: note, BaseFrequency: freq}, nil
}

// Render plays file with the sample as the only instrument
func Render(sample audio.Buffer, file *midi.File, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if file == nil {
		file = &midi.File{}
	}

	inst, err := NewInstrument(sample, cfg)
	if err != nil {
		return nil, err
	}

	tempo, err := Tempo(file)
	if err != nil {
		return nil, err
	}

	tl, err := midi.BuildTimeline(file.Tracks, file.TicksPerBeat, tempo)
	if err != nil {
		return nil, err
	}
	total := midi.Duration(file.Tracks, file.TicksPerBeat, tempo)

	buf, report, err := NewEngine(cfg).Mix(tl, inst.Library, total)
	if err != nil {
		return nil, fmt.Errorf("mix: %w", err)
	}
	log.Printf("render: %d notes over %d channels, %d orphans, %d zero-length, %d samples generated",
		report.Rendered, report.Channels, report.Orphans, report.ZeroDuration, inst.Library.Generated())

	return &Result{
		Buffer:     buf,
		Instrument: inst,
		Tempo:      tempo,
		DurationMs: total,
		Timeline:   tl,
		Report:     report,
	}, nil
}

// Tempo resolves the file's single tempo
// A missing tempo is only an error when there is something to time
func Tempo(file *midi.File) (uint32, error) {
	tempo, err := midi.FindTempo(file.Tracks)
	if errors.Is(err, midi.ErrMissingTempo) &&
		!midi.HasChannelMessages(file.Tracks) && midi.TotalTicks(file.Tracks) == 0 {
		return 0, nil
	}
	return tempo, err
}
