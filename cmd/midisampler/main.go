package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/lixenwraith/midisampler/audio"
	"github.com/lixenwraith/midisampler/midi"
	"github.com/lixenwraith/midisampler/mixer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "notes":
		err = runNotes(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("midisampler - play a MIDI file with a single recorded sample")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  render  - Render a MIDI file to WAV (or raw s16le PCM)")
	fmt.Println("  notes   - Write every pitched variant of a sample as <note>.wav")
	fmt.Println("  info    - Show tempo, resolution and length of a MIDI file")
	fmt.Println("  dump    - Print MIDI messages and the note timeline")
	fmt.Println("")
	fmt.Println("Run 'midisampler <command> -h' for command flags.")
}

// configFlags binds render tunables to fs, defaults come from the environment
func configFlags(fs *flag.FlagSet) *mixer.Config {
	cfg := mixer.LoadConfig()
	fs.Float64Var(&cfg.SustainRatio, "sustain", cfg.SustainRatio, "Sustain tail length as a fraction of note duration")
	fs.IntVar(&cfg.HistogramBins, "bins", cfg.HistogramBins, "Pitch detection histogram bins")
	fs.IntVar(&cfg.ResampleQuality, "quality", cfg.ResampleQuality, "Resample quality (1-64)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Channels rendered in parallel")
	fs.Float64Var(&cfg.Gain, "gain", cfg.Gain, "Master gain (0.0-2.0)")
	return cfg
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	samplePath := fs.String("sample", "", "Instrument sample (WAV)")
	midiPath := fs.String("midi", "", "MIDI file to render")
	outPath := fs.String("out", "out.wav", "Output path, '-' writes raw PCM to stdout")
	raw := fs.Bool("raw", false, "Write raw s16le PCM instead of WAV")
	debug := fs.Bool("debug", false, "Write diagnostics to logs/midisampler.log")
	cfg := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *samplePath == "" || *midiPath == "" {
		fs.Usage()
		return errors.New("render needs -sample and -midi")
	}

	if f := setupLogging(*debug); f != nil {
		defer f.Close()
	}
	cfg.Validate()

	sample, err := loadSample(*samplePath)
	if err != nil {
		return err
	}
	file, err := midi.ReadFile(*midiPath)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := mixer.Render(sample, file, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var written uint64
	if *outPath == "-" || *raw {
		written, err = writeRaw(*outPath, res.Buffer)
	} else {
		written, err = writeWAV(*outPath, res.Buffer)
	}
	if err != nil {
		return err
	}

	if *outPath == "-" {
		return nil
	}
	fmt.Printf("Base note:  %v (%.2f Hz)\n", res.Instrument.BaseNote, res.Instrument.BaseFrequency)
	fmt.Printf("Length:     %s\n", formatMs(res.DurationMs))
	fmt.Printf("Notes:      %d rendered on %d channels, %d skipped\n",
		res.Report.Rendered, res.Report.Channels, res.Report.Orphans+res.Report.ZeroDuration)
	fmt.Printf("Samples:    %d pitched variants\n", res.Instrument.Library.Generated())
	fmt.Printf("Output:     %s (%s) in %v\n", *outPath, humanize.Bytes(written), elapsed.Round(time.Millisecond))
	return nil
}

func runNotes(args []string) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	samplePath := fs.String("sample", "", "Instrument sample (WAV)")
	outDir := fs.String("out", "output", "Directory for <note>.wav files")
	debug := fs.Bool("debug", false, "Write diagnostics to logs/midisampler.log")
	cfg := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *samplePath == "" {
		fs.Usage()
		return errors.New("notes needs -sample")
	}

	if f := setupLogging(*debug); f != nil {
		defer f.Close()
	}
	cfg.Validate()

	sample, err := loadSample(*samplePath)
	if err != nil {
		return err
	}
	inst, err := mixer.NewInstrument(sample, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}

	var total uint64
	for _, n := range audio.AllNotes() {
		buf, err := inst.Library.Sample(n)
		if err != nil {
			return err
		}
		written, err := writeWAV(filepath.Join(*outDir, n.String()+".wav"), buf)
		if err != nil {
			return err
		}
		total += written
	}

	fmt.Printf("Base note %v (%.2f Hz): wrote %d notes to %s (%s)\n",
		inst.BaseNote, inst.BaseFrequency, inst.Library.Generated(), *outDir, humanize.Bytes(total))
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	midiPath := fs.String("midi", "", "MIDI file to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *midiPath == "" {
		fs.Usage()
		return errors.New("info needs -midi")
	}
	setupLogging(false)

	file, err := midi.ReadFile(*midiPath)
	if err != nil {
		return err
	}
	tempo, err := mixer.Tempo(file)
	if err != nil {
		return err
	}

	notes := 0
	for _, tr := range file.Tracks {
		for _, msg := range tr {
			if m, ok := msg.(midi.ChannelMessage); ok && m.IsNoteStart() {
				notes++
			}
		}
	}

	fmt.Printf("Tracks:         %d\n", len(file.Tracks))
	fmt.Printf("Ticks per beat: %d\n", file.TicksPerBeat)
	fmt.Printf("Tempo:          %d us/beat (%.1f BPM)\n", tempo, bpm(tempo))
	fmt.Printf("Total ticks:    %d\n", midi.TotalTicks(file.Tracks))
	fmt.Printf("Note starts:    %d\n", notes)
	fmt.Printf("Length:         %s\n", formatMs(midi.Duration(file.Tracks, file.TicksPerBeat, tempo)))
	return nil
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	midiPath := fs.String("midi", "", "MIDI file to dump")
	timeline := fs.Bool("timeline", false, "Print the per-channel note timeline instead of raw messages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *midiPath == "" {
		fs.Usage()
		return errors.New("dump needs -midi")
	}
	setupLogging(false)

	file, err := midi.ReadFile(*midiPath)
	if err != nil {
		return err
	}

	if !*timeline {
		for i, tr := range file.Tracks {
			fmt.Printf("=== Track %d (%d messages) ===\n", i, len(tr))
			for _, msg := range tr {
				fmt.Println(msg)
			}
		}
		return nil
	}

	tempo, err := mixer.Tempo(file)
	if err != nil {
		return err
	}
	tl, err := midi.BuildTimeline(file.Tracks, file.TicksPerBeat, tempo)
	if err != nil {
		return err
	}
	for _, ch := range tl.Channels() {
		fmt.Printf("=== Channel %d (%d events) ===\n", ch, len(tl[ch]))
		for _, ev := range tl[ch] {
			fmt.Println(ev)
		}
	}
	return nil
}

func loadSample(path string) (audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Buffer{}, err
	}
	defer f.Close()

	buf, err := audio.DecodeWAV(f)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

func writeWAV(path string, buf audio.Buffer) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := audio.EncodeWAV(f, buf); err != nil {
		f.Close()
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	return uint64(info.Size()), f.Close()
}

func writeRaw(path string, buf audio.Buffer) (uint64, error) {
	pcm := audio.EncodePCM16(buf)
	if path == "-" {
		n, err := os.Stdout.Write(pcm)
		return uint64(n), err
	}
	if err := os.WriteFile(path, pcm, 0644); err != nil {
		return 0, err
	}
	return uint64(len(pcm)), nil
}

func formatMs(ms float64) string {
	d := time.Duration(ms * float64(time.Millisecond))
	if d <= 0 {
		return "0 seconds"
	}
	return durafmt.Parse(d.Round(time.Millisecond)).String()
}

func bpm(tempo uint32) float64 {
	if tempo == 0 {
		return 0
	}
	return 60_000_000 / float64(tempo)
}
