package tuning

import "fmt"

// KbmRoot is the linear surrogate keyboard mapping: the keyboard mapping
// degree and the scale degree are the same number. It is the common fast
// path and never returns an unmapped key.
type KbmRoot struct {
	RefKey     PianoKey
	RefPitch   Pitch
	RootOffset int
}

// KbmRootFromNote anchors at note's own (piano key, default pitch).
func KbmRootFromNote(note Note) KbmRoot {
	return KbmRoot{RefKey: note.AsPianoKey(), RefPitch: note.Pitch()}
}

// KbmRootFromReferencePitch anchors at an explicit key/pitch pair.
func KbmRootFromReferencePitch(ref ReferencePitch) KbmRoot {
	return KbmRoot{RefKey: ref.Key(), RefPitch: ref.Pitch()}
}

// ShiftRefKeyBy shifts ref_key by numDegrees, correcting ref_pitch to keep
// the scale's absolute location unchanged (12-EDO semitone shift).
func (k KbmRoot) ShiftRefKeyBy(numDegrees int) KbmRoot {
	return KbmRoot{
		RefKey:     k.RefKey.PlusSteps(numDegrees),
		RefPitch:   k.RefPitch.Times(RatioFromSemitones(float64(numDegrees))),
		RootOffset: k.RootOffset,
	}
}

// ToKbm builds an equivalent table-based Kbm spanning a single mapped key
// at formal octave 1.
func (k KbmRoot) ToKbm() *Kbm {
	kbm, err := NewKbmBuilder(k).PushMappedKey(0).FormalOctave(1).Build()
	if err != nil {
		panic(err)
	}
	return kbm
}

// Kbm is a general keyboard mapping: a reference key/pitch/root-offset
// triple (KbmRoot), an inclusive-exclusive piano-key range, an optional
// key -> scale-degree table, and the formal octave that one full table
// spans.
type Kbm struct {
	kbmRoot      KbmRoot
	rangeStart   PianoKey
	rangeEnd     PianoKey
	numItems     int
	keyMapping   []*int
	formalOctave int
}

// KbmRoot returns the underlying root anchor.
func (k *Kbm) KbmRoot() KbmRoot { return k.kbmRoot }

// SetKbmRoot overrides the root anchor.
func (k *Kbm) SetKbmRoot(root KbmRoot) { k.kbmRoot = root }

// Range returns the inclusive-exclusive piano key range this mapping
// covers.
func (k *Kbm) Range() (start, end PianoKey) { return k.rangeStart, k.rangeEnd }

// FormalOctave returns the scale-degree stride one full mapping table
// spans.
func (k *Kbm) FormalOctave() int { return k.formalOctave }

// NumItems returns the length of the key -> degree table.
func (k *Kbm) NumItems() int { return k.numItems }

// ScaleDegreeOf resolves key to a scale degree, or (0, false) if key is
// out of range or falls on an explicitly unmapped table slot.
func (k *Kbm) ScaleDegreeOf(key PianoKey) (degree int, ok bool) {
	if key.MIDINumber() < k.rangeStart.MIDINumber() || key.MIDINumber() >= k.rangeEnd.MIDINumber() {
		return 0, false
	}
	keyDegree := k.kbmRoot.RefKey.NumKeysBefore(key)
	if k.numItems == 0 {
		return keyDegree, true
	}
	factor, index := divModInt(keyDegree, k.numItems)
	mapped := k.keyMapping[index]
	if mapped == nil {
		return 0, false
	}
	return *mapped + factor*k.formalOctave, true
}

// KbmBuilder accumulates a key -> degree table for Kbm.
type KbmBuilder struct {
	kbmRoot      KbmRoot
	rangeStart   PianoKey
	rangeEnd     PianoKey
	keyMapping   []*int
	formalOctave *int
}

// NewKbmBuilder starts a builder anchored at root, defaulting to the full
// MIDI range [0, 128) with no mapping table (i.e. a linear pass-through).
func NewKbmBuilder(root KbmRoot) *KbmBuilder {
	return &KbmBuilder{
		kbmRoot:    root,
		rangeStart: PianoKeyFromMIDINumber(0),
		rangeEnd:   PianoKeyFromMIDINumber(128),
	}
}

// Range overrides the default [0, 128) key range.
func (b *KbmBuilder) Range(start, end PianoKey) *KbmBuilder {
	b.rangeStart, b.rangeEnd = start, end
	return b
}

// PushMappedKey appends a mapped table entry.
func (b *KbmBuilder) PushMappedKey(scaleDegree int) *KbmBuilder {
	d := scaleDegree
	b.keyMapping = append(b.keyMapping, &d)
	return b
}

// PushUnmappedKey appends an unmapped ("x") table entry.
func (b *KbmBuilder) PushUnmappedKey() *KbmBuilder {
	b.keyMapping = append(b.keyMapping, nil)
	return b
}

// FormalOctave sets the scale-degree stride one full mapping table spans.
// Mandatory once any key has been pushed.
func (b *KbmBuilder) FormalOctave(formalOctave int) *KbmBuilder {
	o := formalOctave
	b.formalOctave = &o
	return b
}

// ErrFormalOctaveMissing is returned by Build when at least one key was
// pushed but FormalOctave was never called.
var ErrFormalOctaveMissing = fmt.Errorf("formal octave parameter is mandatory once a key has been pushed")

// ErrMappingTooLarge is returned by Build when the key table exceeds 65535
// entries.
var ErrMappingTooLarge = fmt.Errorf("keyboard mapping too large: more than %d entries", maxScaleItems)

// Build finishes the mapping.
func (b *KbmBuilder) Build() (*Kbm, error) {
	if len(b.keyMapping) > 0 && b.formalOctave == nil {
		return nil, ErrFormalOctaveMissing
	}
	if len(b.keyMapping) > maxScaleItems {
		return nil, ErrMappingTooLarge
	}
	formalOctave := 0
	if b.formalOctave != nil {
		formalOctave = *b.formalOctave
	}
	return &Kbm{
		kbmRoot:      b.kbmRoot,
		rangeStart:   b.rangeStart,
		rangeEnd:     b.rangeEnd,
		numItems:     len(b.keyMapping),
		keyMapping:   b.keyMapping,
		formalOctave: formalOctave,
	}, nil
}
