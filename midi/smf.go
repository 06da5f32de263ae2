package midi

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
	statusSystem  = 0xF0
	metaPrefix    = 0xFF
	metaTempo     = 0x51
)

// Decode parses a Standard MIDI File into tagged messages
func Decode(r io.Reader) (*File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("read smf: %w", err)
	}
	return fromSMF(s)
}

// ReadFile parses the Standard MIDI File at path
func ReadFile(path string) (*File, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read smf %s: %w", path, err)
	}
	return fromSMF(s)
}

func fromSMF(s *smf.SMF) (*File, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeFormat, s.TimeFormat)
	}
	if mt == 0 {
		return nil, fmt.Errorf("%w: zero ticks per beat", ErrInvalidTimeFormat)
	}

	f := &File{
		TicksPerBeat: uint16(mt),
		Tracks:       make([]Track, 0, len(s.Tracks)),
	}
	for _, tr := range s.Tracks {
		track := make(Track, 0, len(tr))
		for _, ev := range tr {
			track = append(track, convert(ev.Delta, []byte(ev.Message)))
		}
		f.Tracks = append(f.Tracks, track)
	}
	return f, nil
}

// convert splits raw event bytes into the channel or meta variant
func convert(delta uint32, raw []byte) Message {
	if len(raw) == 0 {
		return MetaMessage{Delta: delta, Kind: KindOther}
	}

	status := raw[0]
	if status >= statusNoteOff && status < statusSystem {
		m := ChannelMessage{Delta: delta, Channel: status & 0x0F, Kind: KindOther}
		switch status & 0xF0 {
		case statusNoteOn:
			m.Kind = KindNoteOn
		case statusNoteOff:
			m.Kind = KindNoteOff
		}
		if m.Kind != KindOther && len(raw) >= 3 {
			m.Key, m.Velocity = raw[1], raw[2]
		}
		return m
	}

	// FF 51 03 tt tt tt
	if status == metaPrefix && len(raw) >= 6 && raw[1] == metaTempo && raw[2] == 3 {
		tempo := uint32(raw[3])<<16 | uint32(raw[4])<<8 | uint32(raw[5])
		return MetaMessage{Delta: delta, Kind: KindSetTempo, Tempo: tempo}
	}
	return MetaMessage{Delta: delta, Kind: KindOther}
}
