package mixer

import (
	"fmt"
	"log"
	"sort"

	"github.com/gopxl/beep"
	"github.com/remeh/sizedwaitgroup"

	"github.com/lixenwraith/midisampler/audio"
	"github.com/lixenwraith/midisampler/midi"
)

// SampleSource supplies a pitched sample per note, all sharing one format
type SampleSource interface {
	Sample(n audio.Note) (audio.Buffer, error)
	Format() beep.Format
}

// Engine pairs note events per channel and overlays rendered notes into a master buffer
type Engine struct {
	renderer     *audio.Renderer
	sustainRatio float64
	workers      int
	gain         float64
}

// NewEngine creates a mix engine, nil cfg selects defaults
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.Validate()
	return &Engine{
		renderer:     audio.NewRenderer(),
		sustainRatio: c.SustainRatio,
		workers:      c.Workers,
		gain:         c.Gain,
	}
}

type channelResult struct {
	buf    audio.Buffer
	report *Report
	err    error
}

// Mix renders every channel of tl into a buffer of exactly frames(totalMs)
// Malformed events are skipped and reported; sample errors abort the mix
func (e *Engine) Mix(tl midi.Timeline, src SampleSource, totalMs float64) (audio.Buffer, *Report, error) {
	format := src.Format()
	master := audio.Silence(format, audio.FramesFor(format.SampleRate, totalMs))

	chans := tl.Channels()
	results := make([]channelResult, len(chans))

	if e.workers <= 1 || len(chans) <= 1 {
		for i, ch := range chans {
			results[i] = e.mixChannel(ch, tl[ch], src, master.Len())
		}
	} else {
		swg := sizedwaitgroup.New(e.workers)
		for i, ch := range chans {
			swg.Add()
			go func(i int, ch uint8) {
				defer swg.Done()
				results[i] = e.mixChannel(ch, tl[ch], src, master.Len())
			}(i, ch)
		}
		swg.Wait()
	}

	// Reduce in channel order so the sum does not depend on scheduling
	report := &Report{}
	for i, r := range results {
		if r.err != nil {
			return audio.Buffer{}, report, fmt.Errorf("channel %d: %w", chans[i], r.err)
		}
		master.Overlay(r.buf, 0)
		report.merge(r.report)
	}
	master.Scale(e.gain)
	return master, report, nil
}

// mixChannel pairs one channel's events greedily and renders each pair
func (e *Engine) mixChannel(ch uint8, events []midi.NoteEvent, src SampleSource, frames int) channelResult {
	report := &Report{Channels: 1}
	buf := audio.Silence(src.Format(), frames)

	pending := make([]midi.NoteEvent, len(events))
	copy(pending, events)
	sortEvents(pending)

	skip := func(ev midi.NoteEvent, err error) {
		log.Printf("mixer: ch%d: %v: %v", ch, err, ev)
		report.add(ev, err)
	}

	for len(pending) > 0 {
		on := pending[0]
		pending = pending[1:]

		if on.Kind == midi.Off || len(pending) == 0 {
			skip(on, ErrOrphanEvent)
			continue
		}

		match := -1
		for i, ev := range pending {
			if ev.Kind == midi.Off && ev.Note == on.Note {
				match = i
				break
			}
		}
		if match < 0 {
			skip(on, ErrOrphanEvent)
			continue
		}
		off := pending[match]
		pending = append(pending[:match], pending[match+1:]...)

		duration := off.TimeMs - on.TimeMs
		if duration == 0 {
			skip(on, ErrZeroDuration)
			continue
		}

		sample, err := src.Sample(on.Note)
		if err != nil {
			return channelResult{err: err}
		}
		segment := e.renderer.Render(sample, duration, duration*e.sustainRatio)
		buf.Overlay(segment, buf.FramesFor(on.TimeMs))
		report.Rendered++
	}

	return channelResult{buf: buf, report: report}
}

// sortEvents orders by time, On before Off, then pitch for a total order
func sortEvents(evs []midi.NoteEvent) {
	sort.Slice(evs, func(i, j int) bool {
		a, b := evs[i], evs[j]
		if a.TimeMs != b.TimeMs {
			return a.TimeMs < b.TimeMs
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Note < b.Note
	})
}
