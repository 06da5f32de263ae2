package midi

import (
	"fmt"
	"log"
	"sort"

	"github.com/lixenwraith/midisampler/audio"
)

// EventKind distinguishes note starts from note ends
// On sorts before Off
type EventKind uint8

const (
	On EventKind = iota
	Off
)

func (k EventKind) String() string {
	if k == On {
		return "on"
	}
	return "off"
}

// NoteEvent is a note boundary at an absolute time
type NoteEvent struct {
	Channel uint8
	Kind    EventKind
	Note    audio.Note
	TimeMs  float64
}

func (e NoteEvent) String() string {
	return fmt.Sprintf("ch%d %s %v @%.2fms", e.Channel, e.Kind, e.Note, e.TimeMs)
}

// Timeline groups note events by channel, in no particular order
type Timeline map[uint8][]NoteEvent

// Channels returns channel numbers in ascending order
func (tl Timeline) Channels() []uint8 {
	chans := make([]uint8, 0, len(tl))
	for ch := range tl {
		chans = append(chans, ch)
	}
	sort.Slice(chans, func(i, j int) bool { return chans[i] < chans[j] })
	return chans
}

// Len returns the total event count across channels
func (tl Timeline) Len() int {
	n := 0
	for _, evs := range tl {
		n += len(evs)
	}
	return n
}

// BuildTimeline walks every track, timing channel messages with a per-channel tick accumulator
// Accumulators reset at each track; meta messages advance no channel
// Keys outside octaves 0-8 are skipped and logged; identical events collapse into one
func BuildTimeline(tracks []Track, ticksPerBeat uint16, tempo uint32) (Timeline, error) {
	tl := make(Timeline)
	if len(tracks) == 0 {
		return tl, nil
	}
	if ticksPerBeat == 0 {
		return nil, fmt.Errorf("%w: zero ticks per beat", ErrInvalidTimeFormat)
	}

	seen := make(map[NoteEvent]struct{})
	for ti, tr := range tracks {
		var ticks [16]uint64
		for _, msg := range tr {
			m, ok := msg.(ChannelMessage)
			if !ok {
				continue
			}
			ch := m.Channel & 0x0F
			if _, known := tl[ch]; !known {
				tl[ch] = nil
			}
			ticks[ch] += uint64(m.Delta)

			var kind EventKind
			switch {
			case m.IsNoteStart():
				kind = On
			case m.IsNoteEnd():
				kind = Off
			default:
				continue
			}

			note, err := audio.MIDIKeyToNote(int(m.Key))
			if err != nil {
				log.Printf("timeline: track %d ch%d: %v: key %d", ti, ch, ErrUnsupportedKey, m.Key)
				continue
			}

			ev := NoteEvent{
				Channel: ch,
				Kind:    kind,
				Note:    note,
				TimeMs:  TicksToMs(ticks[ch], ticksPerBeat, tempo),
			}
			if _, dup := seen[ev]; dup {
				continue
			}
			seen[ev] = struct{}{}
			tl[ch] = append(tl[ch], ev)
		}
	}
	return tl, nil
}
