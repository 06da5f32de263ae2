package audio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWAVRoundTrip verifies encode then decode preserves format and samples
func TestWAVRoundTrip(t *testing.T) {
	src := sineBuffer(440, 8000, 800)
	path := filepath.Join(t.TempDir(), "tone.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := EncodeWAV(f, src); err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := DecodeWAV(f)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if got.Format.SampleRate != 8000 || got.Format.NumChannels != 1 || got.Format.Precision != 2 {
		t.Errorf("Expected 8000Hz mono 16-bit, got %+v", got.Format)
	}
	if got.Len() != src.Len() {
		t.Fatalf("Expected %d frames, got %d", src.Len(), got.Len())
	}
	for i := range src.Frames {
		if math.Abs(got.Frames[i][0]-src.Frames[i][0]) > 1e-3 {
			t.Fatalf("Frame %d: expected %f, got %f", i, src.Frames[i][0], got.Frames[i][0])
		}
	}
}

// TestDecodeWAVInvalid verifies non-WAV input fails
func TestDecodeWAVInvalid(t *testing.T) {
	if _, err := DecodeWAV(strings.NewReader("not a wav file at all")); err == nil {
		t.Error("Expected decode error")
	}
}

// TestEncodeWAVInvalidRate verifies a zero rate is refused
func TestEncodeWAVInvalidRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	if err := EncodeWAV(f, constBuffer(0.1, 0, 10)); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}
