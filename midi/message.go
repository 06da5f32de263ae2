package midi

import "fmt"

// MessageKind tags the decoded MIDI message type
type MessageKind uint8

const (
	KindOther MessageKind = iota
	KindNoteOn
	KindNoteOff
	KindSetTempo
)

func (k MessageKind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindSetTempo:
		return "set_tempo"
	default:
		return "other"
	}
}

// Message is one track event, either a ChannelMessage or a MetaMessage
type Message interface {
	// DeltaTicks is the tick distance from the previous message on the same track
	DeltaTicks() uint32
	isMessage()
}

// ChannelMessage carries a channel voice event (channel 0-15)
type ChannelMessage struct {
	Delta    uint32
	Channel  uint8
	Kind     MessageKind
	Key      uint8
	Velocity uint8
}

func (m ChannelMessage) DeltaTicks() uint32 { return m.Delta }
func (ChannelMessage) isMessage()           {}

func (m ChannelMessage) String() string {
	return fmt.Sprintf("%s channel=%d note=%d velocity=%d time=%d", m.Kind, m.Channel, m.Key, m.Velocity, m.Delta)
}

// IsNoteStart reports note_on with nonzero velocity
func (m ChannelMessage) IsNoteStart() bool {
	return m.Kind == KindNoteOn && m.Velocity > 0
}

// IsNoteEnd reports note_off, or note_on with zero velocity
func (m ChannelMessage) IsNoteEnd() bool {
	return m.Kind == KindNoteOff || (m.Kind == KindNoteOn && m.Velocity == 0)
}

// MetaMessage carries meta and system events that belong to no channel
type MetaMessage struct {
	Delta uint32
	Kind  MessageKind
	// Tempo in microseconds per beat, set for KindSetTempo
	Tempo uint32
}

func (m MetaMessage) DeltaTicks() uint32 { return m.Delta }
func (MetaMessage) isMessage()           {}

func (m MetaMessage) String() string {
	if m.Kind == KindSetTempo {
		return fmt.Sprintf("meta %s tempo=%d time=%d", m.Kind, m.Tempo, m.Delta)
	}
	return fmt.Sprintf("meta %s time=%d", m.Kind, m.Delta)
}

// Track is an ordered message list
type Track []Message

// File is a parsed Standard MIDI File
type File struct {
	TicksPerBeat uint16
	Tracks       []Track
}
