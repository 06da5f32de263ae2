package constant

// Tuning reference, 12-TET
const (
	ReferenceA4 = 440.0
	// C0 sits 57 semitones (4.75 octaves) below A4
	C0Offset = -4.75

	PitchClasses = 12
	Octaves      = 9
	NoteCount    = PitchClasses * Octaves // 108
)

// Pitch detection
const (
	// HistogramBins splits [0, Nyquist] for magnitude accumulation
	HistogramBins = 500

	// UnvoicedThreshold is the minimum winning bin weight per input frame
	UnvoicedThreshold = 1e-6
)

// Resynthesis and rendering
const (
	// ResampleQuality is passed to beep.Resample (1-64)
	ResampleQuality    = 4
	MinResampleQuality = 1
	MaxResampleQuality = 64

	// SustainRatio scales the faded tail relative to note duration
	SustainRatio    = 0.5
	MaxSustainRatio = 4.0

	// StreamChunk is the frame count drained per Stream call
	StreamChunk = 512

	// MaxGain caps the master gain multiplier
	MaxGain = 2.0
)

// Output encoding
const (
	DefaultPrecision = 2 // bytes per sample, 16-bit
	SoftLimitKnee    = 0.8
)

// Environment variables read by mixer.LoadConfig
const (
	EnvSustainRatio    = "MIDISAMPLER_SUSTAIN_RATIO"
	EnvHistogramBins   = "MIDISAMPLER_HISTOGRAM_BINS"
	EnvResampleQuality = "MIDISAMPLER_RESAMPLE_QUALITY"
	EnvWorkers         = "MIDISAMPLER_WORKERS"
	EnvGain            = "MIDISAMPLER_GAIN"
)
