package midi

// FindTempo returns the first set_tempo in track order
// Later tempo changes are ignored, the whole piece plays at one tempo
func FindTempo(tracks []Track) (uint32, error) {
	for _, tr := range tracks {
		for _, msg := range tr {
			if m, ok := msg.(MetaMessage); ok && m.Kind == KindSetTempo && m.Tempo > 0 {
				return m.Tempo, nil
			}
		}
	}
	return 0, ErrMissingTempo
}

// HasChannelMessages reports whether any track carries a channel event
func HasChannelMessages(tracks []Track) bool {
	for _, tr := range tracks {
		for _, msg := range tr {
			if _, ok := msg.(ChannelMessage); ok {
				return true
			}
		}
	}
	return false
}

// TicksToMs converts an absolute tick count at the given tempo (us per beat)
func TicksToMs(ticks uint64, ticksPerBeat uint16, tempo uint32) float64 {
	if ticksPerBeat == 0 {
		return 0
	}
	return float64(ticks) * float64(tempo) / float64(ticksPerBeat) / 1000
}

// TotalTicks returns the largest per-track sum of deltas, meta events included
func TotalTicks(tracks []Track) uint64 {
	var longest uint64
	for _, tr := range tracks {
		var sum uint64
		for _, msg := range tr {
			sum += uint64(msg.DeltaTicks())
		}
		if sum > longest {
			longest = sum
		}
	}
	return longest
}

// Duration returns the piece length in milliseconds
func Duration(tracks []Track, ticksPerBeat uint16, tempo uint32) float64 {
	return TicksToMs(TotalTicks(tracks), ticksPerBeat, tempo)
}
