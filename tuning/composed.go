package tuning

// KeyboardMapping is the partial counterpart of Tuning: an address may
// legitimately have no pitch (an unmapped Kbm table slot).
type KeyboardMapping[N any] interface {
	MaybePitchOf(address N) (Pitch, bool)
}

// ScaleTuning pairs a Scl with a KbmRoot into a full bidirectional
// key<->pitch Tuning, per spec.md's "Tuning composition" component.
type ScaleTuning struct {
	Scale *Scl
	Root  KbmRoot
}

// NewScaleTuning builds the pair.
func NewScaleTuning(scale *Scl, root KbmRoot) ScaleTuning {
	return ScaleTuning{Scale: scale, Root: root}
}

func (t ScaleTuning) rootPitch() Pitch {
	return t.Root.RefPitch.Div(t.Scale.RelativePitchOf(-t.Root.RootOffset))
}

// PitchOf resolves a PianoKey to a Pitch.
func (t ScaleTuning) PitchOf(key PianoKey) Pitch {
	degree := t.Root.RefKey.NumKeysBefore(key)
	return t.PitchOfDegree(degree)
}

// PitchOfDegree resolves a raw scale degree to a Pitch, bypassing the
// keyboard mapping.
func (t ScaleTuning) PitchOfDegree(degree int) Pitch {
	return t.rootPitch().Times(t.Scale.RelativePitchOf(degree))
}

// FindByPitch finds the nearest PianoKey for pitch, plus the signed
// deviation.
func (t ScaleTuning) FindByPitch(pitch Pitch) Approximation[PianoKey] {
	degree := t.FindDegreeByPitch(pitch)
	return Approximation[PianoKey]{
		ApproxValue: PianoKeyFromMIDINumber(t.Root.RefKey.MIDINumber() + degree.ApproxValue),
		Deviation:   degree.Deviation,
	}
}

// FindDegreeByPitch finds the nearest raw scale degree for pitch.
func (t ScaleTuning) FindDegreeByPitch(pitch Pitch) Approximation[int] {
	totalRatio := RatioBetween(t.rootPitch(), pitch)
	return t.Scale.FindByRelativePitch(totalRatio)
}

// SortedPitchOf implements Scale against the sorted view.
func (t ScaleTuning) SortedPitchOf(degree int) Pitch {
	return t.rootPitch().Times(t.Scale.SortedRelativePitchOf(degree))
}

// FindByPitchSorted implements Scale against the sorted view.
func (t ScaleTuning) FindByPitchSorted(pitch Pitch) Approximation[int] {
	totalRatio := RatioBetween(t.rootPitch(), pitch)
	return t.Scale.FindByRelativePitchSorted(totalRatio)
}

// TableTuning pairs a Scl with a general Kbm table, which may leave some
// keys unmapped.
type TableTuning struct {
	Scale *Scl
	Kbm   *Kbm
}

// NewTableTuning builds the pair.
func NewTableTuning(scale *Scl, kbm *Kbm) TableTuning {
	return TableTuning{Scale: scale, Kbm: kbm}
}

// MaybePitchOf resolves a PianoKey to a Pitch, or false if key is
// unmapped.
func (t TableTuning) MaybePitchOf(key PianoKey) (Pitch, bool) {
	degree, ok := t.Kbm.ScaleDegreeOf(key)
	if !ok {
		return Pitch{}, false
	}
	return NewScaleTuning(t.Scale, t.Kbm.KbmRoot()).PitchOfDegree(degree), true
}

// MaybePitchOfMappingDegree resolves a mapping-table degree (offset from
// the Kbm's own reference key) to a Pitch.
func (t TableTuning) MaybePitchOfMappingDegree(mappingDegree int) (Pitch, bool) {
	origin := t.Kbm.KbmRoot().RefKey
	return t.MaybePitchOf(origin.PlusSteps(mappingDegree))
}
