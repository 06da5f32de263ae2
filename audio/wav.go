package audio

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/wav"
)

// DecodeWAV reads a whole WAV stream into memory
func DecodeWAV(r io.Reader) (Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	buf, err := Collect(s, format)
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Len() == 0 {
		return Buffer{}, ErrEmptySample
	}
	return buf, nil
}

// EncodeWAV writes b as a WAV file using the buffer's format
func EncodeWAV(w io.WriteSeeker, b Buffer) error {
	if b.Format.SampleRate <= 0 {
		return fmt.Errorf("encode wav: invalid sample rate %d", b.Format.SampleRate)
	}
	b = NewBuffer(b.Format, b.Frames)
	if b.Format.NumChannels > 2 {
		b.Format.NumChannels = 2
	}
	if err := wav.Encode(w, b.Streamer(), b.Format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
