package audio

// Renderer shapes a pitched sample into a note segment with a faded sustain tail
type Renderer struct{}

// NewRenderer creates a note renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns exactly frames(durationMs)+frames(sustainMs) frames
// Short samples are looped whole to cover the note and its tail, long ones truncated
// The tail fades linearly to silence; durationMs must be positive
func (r *Renderer) Render(sample Buffer, durationMs, sustainMs float64) Buffer {
	main := sample.FramesFor(durationMs)
	tail := sample.FramesFor(sustainMs)
	want := main + tail

	if sample.Len() == 0 {
		return Silence(sample.Format, want)
	}

	segment := sample
	if segment.Len() > main {
		segment = segment.Slice(0, main)
	}

	if segment.Len() < want {
		copies := (want-segment.Len()+sample.Len()-1)/sample.Len()
		repeats := make([]Buffer, copies)
		for i := range repeats {
			repeats[i] = sample
		}
		segment = segment.Concat(repeats...)
	}

	return segment.Slice(0, main).Concat(segment.Slice(main, want).FadeOut())
}
