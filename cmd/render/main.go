// Command render renders a short arpeggio through the Magnetron engine,
// offline to a 32-bit float WAV file or, with --live, through the audio
// device, using either the built-in 12-EDO scale or a Scala .scl/.kbm pair.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/cbegin/microtune/internal/audio"
	"github.com/cbegin/microtune/magnetron"
	"github.com/cbegin/microtune/tuning"
)

// RenderConfig mirrors the pflag surface so a --config file can set the same
// knobs without a long command line. Flags explicitly passed on top of a
// config file still win, since pflag.Parse runs after the overlay.
type RenderConfig struct {
	SampleRate   int     `yaml:"sample_rate"`
	NoteDuration float64 `yaml:"note_duration"`
	Release      float64 `yaml:"release"`
	Notes        string  `yaml:"notes"`
	Scl          string  `yaml:"scl"`
	Kbm          string  `yaml:"kbm"`
	RootKey      int     `yaml:"root_key"`
	RootHz       float64 `yaml:"root_hz"`
	Out          string  `yaml:"out"`
}

func loadRenderConfig(path string) (RenderConfig, error) {
	var cfg RenderConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// scanConfigFlag does a tolerant pre-pass over os.Args to find --config/-c
// before the real flag set (which doesn't know about --config's siblings
// yet) is defined, so a config file's values can seed their defaults.
func scanConfigFlag(args []string) string {
	boot := pflag.NewFlagSet("render-bootstrap", pflag.ContinueOnError)
	boot.ParseErrorsWhitelist.UnknownFlags = true
	configPath := boot.StringP("config", "c", "", "")
	boot.SetOutput(io.Discard)
	_ = boot.Parse(args)
	return *configPath
}

func main() {
	var cfg RenderConfig
	if path := scanConfigFlag(os.Args[1:]); path != "" {
		loaded, err := loadRenderConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "render:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	pflag.StringP("config", "c", "", "YAML file of render settings, overlaid before flags are applied")

	var (
		sampleRate   = pflag.IntP("sample-rate", "r", defaultInt(cfg.SampleRate, 44100), "output sample rate")
		noteDuration = pflag.Float64P("note-duration", "d", defaultFloat(cfg.NoteDuration, 0.5), "seconds each note sounds before the next starts")
		release      = pflag.Float64("release", defaultFloat(cfg.Release, 0.3), "release time in seconds")
		notes        = pflag.StringP("notes", "n", defaultString(cfg.Notes, "0,4,7,12"), "comma-separated scale degrees to arpeggiate")
		sclPath      = pflag.String("scl", cfg.Scl, "Scala .scl file (default: built-in 12-EDO)")
		kbmPath      = pflag.String("kbm", cfg.Kbm, "Scala .kbm file (default: linear mapping anchored at A4)")
		rootKey      = pflag.Int("root-key", defaultInt(cfg.RootKey, 69), "MIDI key the scale's degree 0 is anchored to")
		rootHz       = pflag.Float64("root-hz", defaultFloat(cfg.RootHz, 440), "pitch in Hz the root key sounds at")
		out          = pflag.StringP("out", "o", defaultString(cfg.Out, "render.wav"), "output WAV path")
		live         = pflag.Bool("live", false, "play back through the audio device instead of writing a WAV file")
		help         = pflag.BoolP("help", "h", false, "show usage")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: render [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	scl, kbm, err := loadTuning(*sclPath, *kbmPath, *rootKey, *rootHz)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
	tableTuning := tuning.NewTableTuning(scl, kbm)

	degrees, err := parseDegrees(*notes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}

	if *live {
		if err := playArpeggioLive(tableTuning, degrees, *sampleRate, *noteDuration, *release); err != nil {
			fmt.Fprintln(os.Stderr, "render:", err)
			os.Exit(1)
		}
		return
	}

	samples, err := renderArpeggio(tableTuning, degrees, *sampleRate, *noteDuration, *release)
	if err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}

	wav := encodeWAVFloat32LE(samples, *sampleRate, 1)
	if err := os.WriteFile(*out, wav, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d samples at %d Hz)\n", *out, len(samples), *sampleRate)
}

func loadTuning(sclPath, kbmPath string, rootKey int, rootHz float64) (*tuning.Scl, *tuning.Kbm, error) {
	var scl *tuning.Scl
	if sclPath != "" {
		f, err := os.Open(sclPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open scl: %w", err)
		}
		defer f.Close()
		scl, err = tuning.ImportScl(f)
		if err != nil {
			return nil, nil, fmt.Errorf("import scl: %w", err)
		}
	} else {
		b := tuning.NewSclBuilder()
		for i := 1; i <= 12; i++ {
			b = b.PushCents(float64(i) * 100)
		}
		var err error
		scl, err = b.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("build default scl: %w", err)
		}
	}

	root := tuning.KbmRootFromReferencePitch(tuning.ReferencePitchFromKeyAndPitch(
		tuning.PianoKeyFromMIDINumber(rootKey), tuning.PitchFromHz(rootHz)))

	var kbm *tuning.Kbm
	if kbmPath != "" {
		f, err := os.Open(kbmPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open kbm: %w", err)
		}
		defer f.Close()
		kbm, err = tuning.ImportKbm(f)
		if err != nil {
			return nil, nil, fmt.Errorf("import kbm: %w", err)
		}
	} else {
		kbm = root.ToKbm()
	}
	return scl, kbm, nil
}

func defaultInt(configured, fallback int) int {
	if configured != 0 {
		return configured
	}
	return fallback
}

func defaultFloat(configured, fallback float64) float64 {
	if configured != 0 {
		return configured
	}
	return fallback
}

func defaultString(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}

func parseDegrees(raw string) ([]int, error) {
	fields := strings.Split(raw, ",")
	degrees := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid scale degree %q: %w", f, err)
		}
		degrees = append(degrees, d)
	}
	if len(degrees) == 0 {
		return nil, fmt.Errorf("no scale degrees given")
	}
	return degrees, nil
}

const blockSize = 256

// newArpeggioEngine builds the Engine/Pool pair shared by both the offline
// WAV path and the live playback path: one sine-oscillator voice per
// degree, enveloped with a short attack and the configured release.
func newArpeggioEngine(degrees []int, sampleRate int, release float64) (*magnetron.Engine, *magnetron.Pool) {
	sampleWidth := 1.0 / float64(sampleRate)
	pool := magnetron.NewPool(sampleWidth, 0, blockSize)

	factory := func(pitch tuning.Pitch, velocity float64) *magnetron.Waveform {
		osc, err := magnetron.NewOscillator(
			magnetron.Sine,
			magnetron.WaveformPitchLf(),
			magnetron.ModulationNone,
			magnetron.InBuffer{},
			magnetron.AudioOut(),
			magnetron.ConstantLf(1),
			0,
		)
		if err != nil {
			panic(err)
		}
		envelope := &magnetron.Envelope{Name: "amp", Attack: 0.01, Release: release, DecayRate: 0.5}
		return magnetron.NewWaveform([]magnetron.Stage{osc}, envelope, map[string]*magnetron.Envelope{"amp": envelope}, pitch, velocity)
	}

	return magnetron.NewEngine(pool, len(degrees)+1, factory, 16), pool
}

func renderArpeggio(tableTuning tuning.TableTuning, degrees []int, sampleRate int, noteDuration, release float64) ([]float64, error) {
	engine, pool := newArpeggioEngine(degrees, sampleRate, release)

	noteSamples := int(noteDuration * float64(sampleRate))
	tailSamples := int(release * 2 * float64(sampleRate))
	totalSamples := noteSamples*len(degrees) + tailSamples

	out := make([]float64, 0, totalSamples)
	rendered := 0
	for i, degree := range degrees {
		pitch, ok := tableTuning.MaybePitchOfMappingDegree(degree)
		if !ok {
			return nil, fmt.Errorf("scale degree %d is unmapped", degree)
		}
		engine.NoteOn(uint64(i), pitch, 0.8, false)

		target := rendered + noteSamples
		out = renderUntil(engine, pool, out, target)
		rendered = target

		engine.NoteOff(uint64(i))
	}

	out = renderUntil(engine, pool, out, totalSamples)
	return out, nil
}

func renderUntil(engine *magnetron.Engine, pool *magnetron.Pool, out []float64, target int) []float64 {
	for len(out) < target {
		n := blockSize
		if remaining := target - len(out); remaining < n {
			n = remaining
		}
		engine.DrainEvents()
		pool.Clear(n)
		engine.WriteAll(nil)
		out = append(out, pool.Total()...)
	}
	return out
}

// playArpeggioLive is the realtime counterpart to renderArpeggio: the same
// voice graph, driven instead by audio.NewEnginePlayer over the system
// audio device. Note events are pushed through Engine.Events() rather than
// called directly, since the player's Process callback runs on a separate
// goroutine from this scheduling loop.
func playArpeggioLive(tableTuning tuning.TableTuning, degrees []int, sampleRate int, noteDuration, release float64) error {
	engine, pool := newArpeggioEngine(degrees, sampleRate, release)

	player, err := audio.NewEnginePlayer(sampleRate, engine, pool, nil, nil)
	if err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	player.Play()

	noteInterval := time.Duration(noteDuration * float64(time.Second))
	for i, degree := range degrees {
		pitch, ok := tableTuning.MaybePitchOfMappingDegree(degree)
		if !ok {
			return fmt.Errorf("scale degree %d is unmapped", degree)
		}
		engine.Events() <- magnetron.NoteEvent{Kind: magnetron.NoteOnEvent, SourceID: uint64(i), Pitch: pitch, Velocity: 0.8}
		time.Sleep(noteInterval)
		engine.Events() <- magnetron.NoteEvent{Kind: magnetron.NoteOffEvent, SourceID: uint64(i)}
	}
	time.Sleep(time.Duration(release * 2 * float64(time.Second)))

	return player.Stop()
}

func encodeWAVFloat32LE(samples []float64, sampleRate, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(float32(s)))
	}
	return out
}
