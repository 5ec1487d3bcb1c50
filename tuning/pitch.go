package tuning

import (
	"fmt"
	"strconv"
	"strings"
)

// A4Pitch is the legacy default reference frequency.
var A4Pitch = Pitch{hz: 440}

// Pitch is a strictly positive frequency in Hz.
type Pitch struct {
	hz float64
}

// PitchFromHz builds a Pitch from a frequency in Hz.
func PitchFromHz(hz float64) Pitch { return Pitch{hz: hz} }

// AsHz returns the frequency in Hz.
func (p Pitch) AsHz() float64 { return p.hz }

// Times applies an interval on top of p.
func (p Pitch) Times(ratio Ratio) Pitch {
	return Pitch{hz: p.hz * ratio.AsFloat()}
}

// Div divides p by an interval (the inverse of Times).
func (p Pitch) Div(ratio Ratio) Pitch {
	return Pitch{hz: p.hz / ratio.AsFloat()}
}

// RatioBetween returns the interval between two pitches, i.e. the ratio
// you'd Times onto a to reach b.
func RatioBetween(a, b Pitch) Ratio {
	return RatioFromFloat(b.hz / a.hz)
}

// Describe resolves p to the nearest note under concertPitch plus a signed
// deviation in cents (absolute value >= 0.001c is shown by String).
func (p Pitch) Describe(concertPitch ConcertPitch) Description {
	semitonesAboveA4 := RatioFromFloat(p.hz / concertPitch.A4Pitch().AsHz()).AsSemitones()
	approxSemitonesAboveA4 := roundHalfAwayFromZero(semitonesAboveA4)

	return Description{
		FreqInHz:   p.hz,
		ApproxNote: NoteFromMIDINumber(int(approxSemitonesAboveA4) + A4Note.MIDINumber()),
		Deviation:  RatioFromSemitones(semitonesAboveA4 - approxSemitonesAboveA4),
	}
}

// Description is the human-readable resolution of a Pitch against a
// ConcertPitch: the nearest Note plus the signed residual deviation.
type Description struct {
	FreqInHz   float64
	ApproxNote Note
	Deviation  Ratio
}

// String renders e.g. "220.000 Hz | MIDI 57 | A     3" or, when the
// deviation is audible, "330.000 Hz | MIDI 64 | E     4 | +1.955c".
func (d Description) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.3f Hz | MIDI %d | %s", d.FreqInHz, d.ApproxNote.MIDINumber(), d.ApproxNote.String())
	centsDeviation := d.Deviation.AsCents()
	if absFloat(centsDeviation) >= 0.001 {
		fmt.Fprintf(&b, " | %+.3fc", centsDeviation)
	}
	return b.String()
}

// ReferencePitch anchors a PianoKey to a Pitch, used as the seed for
// KbmRoot. It parses the three forms the legacy CLI accepted: "69",
// "69@440Hz", and "69+100c" or "69-100c".
type ReferencePitch struct {
	key   PianoKey
	pitch Pitch
}

// ReferencePitchFromKeyAndPitch builds a ReferencePitch directly.
func ReferencePitchFromKeyAndPitch(key PianoKey, pitch Pitch) ReferencePitch {
	return ReferencePitch{key: key, pitch: pitch}
}

// ReferencePitchFromNote anchors at note's default pitch, using its 12-EDO
// piano key.
func ReferencePitchFromNote(note Note) ReferencePitch {
	return ReferencePitchFromKeyAndPitch(note.AsPianoKey(), note.Pitch())
}

// Key returns the anchor key.
func (r ReferencePitch) Key() PianoKey { return r.key }

// Pitch returns the anchor pitch.
func (r ReferencePitch) Pitch() Pitch { return r.pitch }

// ParseReferencePitch parses one of "69", "69@440Hz", "69+100c", "69-100c".
func ParseReferencePitch(s string) (ReferencePitch, error) {
	if note, pitch, ok := splitOnce(s, '@'); ok {
		noteNumber, err := strconv.Atoi(note)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid note %q: must be an integer", note)
		}
		parsedPitch, err := parseHzLiteral(pitch)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid pitch %q: %w", pitch, err)
		}
		return ReferencePitchFromKeyAndPitch(PianoKeyFromMIDINumber(noteNumber), parsedPitch), nil
	}
	if note, delta, ok := splitOnce(s, '+'); ok {
		noteNumber, err := strconv.Atoi(note)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid note %q: must be an integer", note)
		}
		deltaRatio, err := parseCentsLiteral(delta)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid delta %q: %w", delta, err)
		}
		altered := NoteFromMIDINumber(noteNumber).AlterPitchBy(deltaRatio)
		return ReferencePitchFromKeyAndPitch(altered.Note().AsPianoKey(), altered.Pitch()), nil
	}
	if note, delta, ok := splitOnce(s, '-'); ok {
		noteNumber, err := strconv.Atoi(note)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid note %q: must be an integer", note)
		}
		deltaRatio, err := parseCentsLiteral(delta)
		if err != nil {
			return ReferencePitch{}, fmt.Errorf("invalid delta %q: %w", delta, err)
		}
		altered := NoteFromMIDINumber(noteNumber).AlterPitchBy(deltaRatio.Inv())
		return ReferencePitchFromKeyAndPitch(altered.Note().AsPianoKey(), altered.Pitch()), nil
	}
	noteNumber, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ReferencePitch{}, fmt.Errorf("must be an expression of type 69, 69@440Hz or 69+100c")
	}
	return ReferencePitchFromNote(NoteFromMIDINumber(noteNumber)), nil
}

func splitOnce(s string, sep byte) (before, after string, ok bool) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

func parseHzLiteral(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasSuffix(lower, "hz") {
		return Pitch{}, fmt.Errorf("must end with Hz or hz")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-2]), 64)
	if err != nil {
		return Pitch{}, err
	}
	return PitchFromHz(value), nil
}

func parseCentsLiteral(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "c") {
		value, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
		if err != nil {
			return Ratio{}, err
		}
		return RatioFromCents(value), nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Ratio{}, err
	}
	return RatioFromFloat(value), nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	f := v - float64(int64(v))
	if f >= 0.5 {
		return float64(int64(v)) + 1
	}
	return float64(int64(v))
}
