package mixer

import (
	"os"
	"runtime"
	"strconv"

	"github.com/lixenwraith/midisampler/constant"
)

// Config holds render tunables
type Config struct {
	// SustainRatio sizes the faded tail as a fraction of each note's duration
	SustainRatio float64
	// HistogramBins is the pitch detector resolution over [0, Nyquist]
	HistogramBins int
	// ResampleQuality is the beep.Resample quality, 1-64
	ResampleQuality int
	// Workers bounds concurrent channel renders; 1 renders sequentially
	Workers int
	// Gain scales the master buffer, 0.0-2.0
	Gain float64
}

// DefaultConfig returns the baseline render settings
func DefaultConfig() *Config {
	return &Config{
		SustainRatio:    constant.SustainRatio,
		HistogramBins:   constant.HistogramBins,
		ResampleQuality: constant.ResampleQuality,
		Workers:         1,
		Gain:            1.0,
	}
}

// LoadConfig loads render configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if ratio := os.Getenv(constant.EnvSustainRatio); ratio != "" {
		if val, err := strconv.ParseFloat(ratio, 64); err == nil {
			cfg.SustainRatio = val
		}
	}

	if bins := os.Getenv(constant.EnvHistogramBins); bins != "" {
		if val, err := strconv.Atoi(bins); err == nil && val > 0 {
			cfg.HistogramBins = val
		}
	}

	if quality := os.Getenv(constant.EnvResampleQuality); quality != "" {
		if val, err := strconv.Atoi(quality); err == nil {
			cfg.ResampleQuality = val
		}
	}

	// "auto" uses every CPU
	if workers := os.Getenv(constant.EnvWorkers); workers != "" {
		if workers == "auto" {
			cfg.Workers = runtime.NumCPU()
		} else if val, err := strconv.Atoi(workers); err == nil {
			cfg.Workers = val
		}
	}

	// Gain as percent (0-200 converted to 0.0-2.0)
	if gain := os.Getenv(constant.EnvGain); gain != "" {
		if val, err := strconv.Atoi(gain); err == nil {
			cfg.Gain = float64(val) / 100.0
		}
	}

	cfg.Validate()
	return cfg
}

// Validate clamps every field into its usable range
func (c *Config) Validate() {
	if c.SustainRatio < 0 {
		c.SustainRatio = 0
	}
	if c.SustainRatio > constant.MaxSustainRatio {
		c.SustainRatio = constant.MaxSustainRatio
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = constant.HistogramBins
	}
	if c.ResampleQuality < constant.MinResampleQuality {
		c.ResampleQuality = constant.MinResampleQuality
	}
	if c.ResampleQuality > constant.MaxResampleQuality {
		c.ResampleQuality = constant.MaxResampleQuality
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Gain < 0 {
		c.Gain = 0
	}
	if c.Gain > constant.MaxGain {
		c.Gain = constant.MaxGain
	}
}
