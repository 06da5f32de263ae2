package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/midisampler/constant"
)

// Buffer is an in-memory PCM signal as stereo float frames
// Mono sources carry identical left/right values; Format.NumChannels keeps the source layout
// All methods except Overlay and Scale return new buffers
type Buffer struct {
	Format beep.Format
	Frames [][2]float64
}

// NewBuffer wraps frames, filling unset format fields with 16-bit mono defaults
func NewBuffer(format beep.Format, frames [][2]float64) Buffer {
	if format.NumChannels <= 0 {
		format.NumChannels = 1
	}
	if format.Precision <= 0 {
		format.Precision = constant.DefaultPrecision
	}
	return Buffer{Format: format, Frames: frames}
}

// Silence returns a zeroed buffer of n frames
func Silence(format beep.Format, n int) Buffer {
	if n < 0 {
		n = 0
	}
	return NewBuffer(format, make([][2]float64, n))
}

// Len returns frame count
func (b Buffer) Len() int { return len(b.Frames) }

// FramesFor converts milliseconds to a frame count at the buffer's rate
func (b Buffer) FramesFor(ms float64) int {
	return FramesFor(b.Format.SampleRate, ms)
}

// DurationMs returns the buffer length in milliseconds
func (b Buffer) DurationMs() float64 {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Frames)) * 1000 / float64(b.Format.SampleRate)
}

// Slice copies frames [from, to), clamped to the buffer
func (b Buffer) Slice(from, to int) Buffer {
	from = clampInt(from, 0, len(b.Frames))
	to = clampInt(to, from, len(b.Frames))
	out := make([][2]float64, to-from)
	copy(out, b.Frames[from:to])
	return Buffer{Format: b.Format, Frames: out}
}

// Concat appends others after b
func (b Buffer) Concat(others ...Buffer) Buffer {
	total := len(b.Frames)
	for _, o := range others {
		total += len(o.Frames)
	}
	out := make([][2]float64, 0, total)
	out = append(out, b.Frames...)
	for _, o := range others {
		out = append(out, o.Frames...)
	}
	return Buffer{Format: b.Format, Frames: out}
}

// FadeOut applies a linear ramp from unity to silence over the whole buffer
func (b Buffer) FadeOut() Buffer {
	out := make([][2]float64, len(b.Frames))
	n := len(b.Frames)
	for i, f := range b.Frames {
		vol := float64(n-i) / float64(n)
		out[i] = [2]float64{f[0] * vol, f[1] * vol}
	}
	return Buffer{Format: b.Format, Frames: out}
}

// Overlay adds seg into b starting at frame offset, in place
// Frames falling outside b are dropped
func (b *Buffer) Overlay(seg Buffer, offset int) {
	start := 0
	if offset < 0 {
		start = -offset
	}
	for i := start; i < len(seg.Frames); i++ {
		j := offset + i
		if j >= len(b.Frames) {
			break
		}
		b.Frames[j][0] += seg.Frames[i][0]
		b.Frames[j][1] += seg.Frames[i][1]
	}
}

// Scale multiplies every sample by gain, in place
func (b *Buffer) Scale(gain float64) {
	if gain == 1 {
		return
	}
	for i := range b.Frames {
		b.Frames[i][0] *= gain
		b.Frames[i][1] *= gain
	}
}

// Mono returns the per-frame channel mean
func (b Buffer) Mono() []float64 {
	out := make([]float64, len(b.Frames))
	if b.Format.NumChannels == 1 {
		for i, f := range b.Frames {
			out[i] = f[0]
		}
		return out
	}
	for i, f := range b.Frames {
		out[i] = (f[0] + f[1]) / 2
	}
	return out
}

// Peak returns the largest absolute sample value
func (b Buffer) Peak() float64 {
	peak := 0.0
	for _, f := range b.Frames {
		peak = math.Max(peak, math.Max(math.Abs(f[0]), math.Abs(f[1])))
	}
	return peak
}

// Streamer exposes the frames as a beep.StreamSeeker
func (b Buffer) Streamer() beep.StreamSeeker {
	return &frameStreamer{frames: b.Frames}
}

// Collect drains s into a buffer with the given format
func Collect(s beep.Streamer, format beep.Format) (Buffer, error) {
	frames := make([][2]float64, 0, constant.StreamChunk)
	chunk := make([][2]float64, constant.StreamChunk)
	for {
		n, ok := s.Stream(chunk)
		frames = append(frames, chunk[:n]...)
		if !ok || n == 0 {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Buffer{}, fmt.Errorf("stream: %w", err)
	}
	return NewBuffer(format, frames), nil
}

// frameStreamer streams a frame slice without copying it
type frameStreamer struct {
	frames [][2]float64
	pos    int
}

func (s *frameStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.frames) {
		return 0, false
	}
	n = copy(samples, s.frames[s.pos:])
	s.pos += n
	return n, true
}

func (s *frameStreamer) Err() error { return nil }

func (s *frameStreamer) Len() int { return len(s.frames) }

func (s *frameStreamer) Position() int { return s.pos }

func (s *frameStreamer) Seek(p int) error {
	if p < 0 || p > len(s.frames) {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, len(s.frames))
	}
	s.pos = p
	return nil
}

// FramesFor converts milliseconds to a rounded frame count
func FramesFor(rate beep.SampleRate, ms float64) int {
	if ms <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Round(ms * float64(rate) / 1000))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
