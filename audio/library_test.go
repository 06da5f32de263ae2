package audio

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	base, _ := ParseNote("A4")
	lib, err := NewLibrary(sineBuffer(440, 8000, 8000), base, 4)
	if err != nil {
		t.Fatalf("NewLibrary failed: %v", err)
	}
	return lib
}

func within(got, want int, frac float64) bool {
	return math.Abs(float64(got-want)) <= float64(want)*frac
}

// TestLibraryBaseNote verifies the base note returns an unshifted copy
func TestLibraryBaseNote(t *testing.T) {
	lib := newTestLibrary(t)

	buf, err := lib.Sample(lib.BaseNote())
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if buf.Len() != 8000 {
		t.Errorf("Expected 8000 frames, got %d", buf.Len())
	}
	if buf.Format != lib.Format() {
		t.Errorf("Expected format %+v, got %+v", lib.Format(), buf.Format)
	}
}

// TestLibraryShiftLength verifies an octave halves or doubles the sample length
func TestLibraryShiftLength(t *testing.T) {
	lib := newTestLibrary(t)

	tests := []struct {
		note string
		want int
	}{
		{"A5", 4000},
		{"A3", 16000},
		{"A6", 2000},
	}
	for _, tt := range tests {
		n, _ := ParseNote(tt.note)
		buf, err := lib.Sample(n)
		if err != nil {
			t.Fatalf("Sample(%s) failed: %v", tt.note, err)
		}
		if !within(buf.Len(), tt.want, 0.01) {
			t.Errorf("%s: expected ~%d frames, got %d", tt.note, tt.want, buf.Len())
		}
		if buf.Format.SampleRate != 8000 {
			t.Errorf("%s: expected rate 8000, got %d", tt.note, buf.Format.SampleRate)
		}
	}
}

// TestLibraryShiftPitch verifies a shifted sample detects at its target note
func TestLibraryShiftPitch(t *testing.T) {
	lib := newTestLibrary(t)
	d := NewDetector(0)

	for _, name := range []string{"A3", "A5"} {
		n, _ := ParseNote(name)
		buf, err := lib.Sample(n)
		if err != nil {
			t.Fatalf("Sample(%s) failed: %v", name, err)
		}
		got, err := d.Detect(buf)
		if err != nil {
			t.Fatalf("Detect(%s) failed: %v", name, err)
		}
		if got != n {
			t.Errorf("Expected %s, got %v", name, got)
		}
	}
}

// TestLibraryMemoized verifies repeated lookups share one generated buffer
func TestLibraryMemoized(t *testing.T) {
	lib := newTestLibrary(t)
	n, _ := ParseNote("C5")

	a, err := lib.Sample(n)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	b, _ := lib.Sample(n)
	if &a.Frames[0] != &b.Frames[0] {
		t.Error("Expected cached buffer on second lookup")
	}
	if lib.Generated() != 1 {
		t.Errorf("Expected 1 generated, got %d", lib.Generated())
	}
}

// TestLibraryConcurrent verifies parallel lookups generate each note once
func TestLibraryConcurrent(t *testing.T) {
	lib := newTestLibrary(t)
	n, _ := ParseNote("E4")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lib.Sample(n); err != nil {
				t.Errorf("Sample failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if lib.Generated() != 1 {
		t.Errorf("Expected 1 generated, got %d", lib.Generated())
	}
}

// TestLibraryInvalidNote verifies out-of-range notes are rejected
func TestLibraryInvalidNote(t *testing.T) {
	lib := newTestLibrary(t)
	for _, n := range []Note{-1, 108} {
		if _, err := lib.Sample(n); !errors.Is(err, ErrInvalidNote) {
			t.Errorf("Note %d: expected ErrInvalidNote, got %v", int(n), err)
		}
	}
	if lib.Generated() != 0 {
		t.Errorf("Expected nothing generated, got %d", lib.Generated())
	}
}

// TestLibraryPreload verifies preloading fills the cache
func TestLibraryPreload(t *testing.T) {
	lib := newTestLibrary(t)
	c4, _ := ParseNote("C4")
	g4, _ := ParseNote("G4")

	if err := lib.Preload(c4, g4, c4); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if lib.Generated() != 2 {
		t.Errorf("Expected 2 generated, got %d", lib.Generated())
	}
}

// TestNewLibraryErrors verifies construction rejects unusable input
func TestNewLibraryErrors(t *testing.T) {
	a4, _ := ParseNote("A4")

	if _, err := NewLibrary(Silence(monoFormat(8000), 0), a4, 4); !errors.Is(err, ErrEmptySample) {
		t.Errorf("Expected ErrEmptySample, got %v", err)
	}
	if _, err := NewLibrary(constBuffer(0.1, 8000, 10), Note(200), 4); !errors.Is(err, ErrInvalidNote) {
		t.Errorf("Expected ErrInvalidNote, got %v", err)
	}
	if _, err := NewLibrary(constBuffer(0.1, 0, 10), a4, 4); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}
