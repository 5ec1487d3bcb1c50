package tuning

import (
	"fmt"
)

// PianoKey is a physical or logical key on a real or virtual instrument
// without any notion of pitch. It is deliberately distinct from Note: a
// PianoKey becomes a Note only once a tuning decides what degree it maps
// to, and a Note becomes a Pitch only once a concert pitch is applied.
type PianoKey struct {
	midiNumber int
}

// PianoKeyFromMIDINumber builds a PianoKey from a raw MIDI-style index.
func PianoKeyFromMIDINumber(midiNumber int) PianoKey {
	return PianoKey{midiNumber: midiNumber}
}

// MIDINumber returns the raw index.
func (k PianoKey) MIDINumber() int { return k.midiNumber }

// NumKeysBefore counts the number of keys [left inclusive, right
// exclusive) between k and other.
func (k PianoKey) NumKeysBefore(other PianoKey) int {
	return other.midiNumber - k.midiNumber
}

// PlusSteps returns the key numSteps away from k.
func (k PianoKey) PlusSteps(numSteps int) PianoKey {
	return PianoKeyFromMIDINumber(k.midiNumber + numSteps)
}

// A4Note is the reference note for the default concert pitch.
var A4Note = NoteFromMIDINumber(69)

// Note is an integer MIDI-style index. It carries no pitch on its own; it
// requires a concert-pitch reference (default 440 Hz at index 69) to be
// voiced.
type Note struct {
	midiNumber int
}

// NoteFromMIDINumber builds a Note from a raw MIDI-style index.
func NoteFromMIDINumber(midiNumber int) Note {
	return Note{midiNumber: midiNumber}
}

// NoteFromPianoKey builds a Note from a PianoKey, assuming standard 12-EDO
// tuning.
func NoteFromPianoKey(key PianoKey) Note {
	return NoteFromMIDINumber(key.MIDINumber())
}

// MIDINumber returns the raw index.
func (n Note) MIDINumber() int { return n.midiNumber }

// AsPianoKey recovers the PianoKey assuming standard 12-EDO tuning.
func (n Note) AsPianoKey() PianoKey {
	return PianoKeyFromMIDINumber(n.MIDINumber())
}

// NumSemitonesBefore counts the semitones [left inclusive, right
// exclusive) between n and other.
func (n Note) NumSemitonesBefore(other Note) int {
	return other.midiNumber - n.midiNumber
}

// Pitch returns n's pitch under the default concert pitch (440 Hz at
// MIDI 69).
func (n Note) Pitch() Pitch {
	return NoteAtConcertPitch(n, DefaultConcertPitch).Pitch()
}

// AlterPitchBy returns a NoteAtConcertPitch for n shifted by delta, i.e.
// the concert pitch under which n sounds delta above its default pitch.
func (n Note) AlterPitchBy(delta Ratio) ConcertNote {
	return NoteAtConcertPitch(n, ConcertPitchFromNoteAndPitch(n, n.Pitch().Times(delta)))
}

var noteLetterNames = [12]string{
	"C", "C#/Db", "D", "D#/Eb", "E", "F",
	"F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B",
}

// String renders n the way the legacy tuning tooling does: a fixed-width
// note-letter name followed by the octave number (MIDI 60 is "C4" in this
// numbering, i.e. octave = midi/12 - 1).
func (n Note) String() string {
	octave, semitone := divModInt(n.midiNumber, 12)
	return fmt.Sprintf("%-5s %d", noteLetterNames[semitone], octave-1)
}

// ConcertNote pairs a Note with the ConcertPitch it sounds under.
type ConcertNote struct {
	note         Note
	concertPitch ConcertPitch
}

// NoteAtConcertPitch pairs a note with an explicit concert pitch.
func NoteAtConcertPitch(note Note, concertPitch ConcertPitch) ConcertNote {
	return ConcertNote{note: note, concertPitch: concertPitch}
}

// Note returns the underlying Note.
func (c ConcertNote) Note() Note { return c.note }

// ConcertPitch returns the concert pitch c sounds under.
func (c ConcertNote) ConcertPitch() ConcertPitch { return c.concertPitch }

// Pitch resolves c to a concrete frequency.
func (c ConcertNote) Pitch() Pitch {
	semitonesAboveA4 := float64(A4Note.NumSemitonesBefore(c.note))
	return c.concertPitch.A4Pitch().Times(RatioFromSemitones(semitonesAboveA4))
}
