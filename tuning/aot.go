package tuning

import "sort"

// ChannelAndNote pairs a zero-based output channel with the Note a key was
// rounded to when it was assigned to that channel.
type ChannelAndNote struct {
	Channel int
	Note    Note
}

// FullKeyboardDetuning is one MIDI channel's worth of per-Note cents
// offsets, built by ApplyFullKeyboardTuning.
type FullKeyboardDetuning struct {
	tuningMap map[Note]Ratio
}

// Detuning returns the offset recorded for note, if any.
func (d *FullKeyboardDetuning) Detuning(note Note) (Ratio, bool) {
	r, ok := d.tuningMap[note]
	return r, ok
}

// ToFluidFormat renders a 128-entry per-MIDI-note detuning table in cents,
// the layout FluidSynth's note-tuning API expects. Unmapped notes are 0.
func (d *FullKeyboardDetuning) ToFluidFormat() [128]float64 {
	var out [128]float64
	for note, deviation := range d.tuningMap {
		midi := note.MIDINumber()
		if midi >= 0 && midi < 128 {
			out[midi] = deviation.AsCents()
		}
	}
	return out
}

// ToMTSFormat renders this channel's detuning as a MIDI Tuning Standard
// single-note tuning change sysex message.
func (d *FullKeyboardDetuning) ToMTSFormat(options MTSOptions) (SingleNoteTuningChangeMessage, error) {
	entries := make([]SingleNoteTuningChangeEntry, 0, len(d.tuningMap))
	for note, deviation := range d.tuningMap {
		entries = append(entries, SingleNoteTuningChangeEntry{
			Key:   note,
			Pitch: note.Pitch().Times(deviation),
		})
	}
	return NewSingleNoteTuningChangeMessage(options, entries)
}

// OctaveBasedDetuning is one MIDI channel's worth of per-note-letter (pitch
// class, mod 12) cents offsets, built by ApplyOctaveBasedTuning.
type OctaveBasedDetuning struct {
	tuningMap map[int]Ratio
}

// Detuning returns the offset recorded for the given note letter (0 = C, 11
// = B), if any.
func (d *OctaveBasedDetuning) Detuning(noteLetter int) (Ratio, bool) {
	r, ok := d.tuningMap[noteLetter]
	return r, ok
}

// ToFluidFormat renders a 12-entry per-note-letter detuning table in cents.
func (d *OctaveBasedDetuning) ToFluidFormat() [12]float64 {
	var out [12]float64
	for letter, deviation := range d.tuningMap {
		if letter >= 0 && letter < 12 {
			out[letter] = deviation.AsCents()
		}
	}
	return out
}

// ToMTSFormat renders this channel's detuning as a MIDI Tuning Standard
// scale/octave tuning change sysex message.
func (d *OctaveBasedDetuning) ToMTSFormat(options MTSOctaveOptions) (ScaleOctaveTuningMessage, error) {
	var cents [12]float64
	for letter, deviation := range d.tuningMap {
		if letter >= 0 && letter < 12 {
			cents[letter] = deviation.AsCents()
		}
	}
	return NewScaleOctaveTuningMessage(options, cents)
}

func noteLetterOf(n Note) int {
	_, letter := divModInt(n.MIDINumber(), 12)
	return letter
}

// keyApprox pairs a key with the Note (and signed deviation) it rounds to
// under the default 12-EDO concert pitch.
type keyApprox[K comparable] struct {
	key    K
	approx Approximation[Note]
}

func collectApproximations[K comparable](mapping KeyboardMapping[K], keys []K) []keyApprox[K] {
	var entries []keyApprox[K]
	for _, k := range keys {
		pitch, ok := mapping.MaybePitchOf(k)
		if !ok {
			continue
		}
		entries = append(entries, keyApprox[K]{key: k, approx: DefaultConcertPitch.FindByPitch(pitch)})
	}
	return entries
}

// applyTuningInternal is the shared greedy channel-packing algorithm behind
// ApplyFullKeyboardTuning, ApplyOctaveBasedTuning and
// ApplyChannelBasedTuning: it repeatedly peels off a maximal batch of keys
// whose grouped notes (by group) don't collide on the current channel's
// detuning map - or whose already-recorded detuning matches within
// tolerance, so pitches can be reused across keys - until every key with a
// defined pitch has been assigned a channel.
func applyTuningInternal[K comparable, G comparable](
	entries []keyApprox[K],
	group func(Note) G,
) ([]map[G]Ratio, map[K]ChannelAndNote) {
	remaining := make([]keyApprox[K], len(entries))
	copy(remaining, entries)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].approx.Deviation.TotalCmp(remaining[j].approx.Deviation) < 0
	})

	var channels []map[G]Ratio
	result := make(map[K]ChannelAndNote)

	for len(remaining) > 0 {
		channel := make(map[G]Ratio)
		channelIndex := len(channels)
		var deferred []keyApprox[K]

		for _, e := range remaining {
			g := group(e.approx.ApproxValue)
			existing, used := channel[g]
			if used && !existing.DeviationFrom(e.approx.Deviation).IsNegligible() {
				deferred = append(deferred, e)
				continue
			}
			if !used {
				channel[g] = e.approx.Deviation
			}
			result[e.key] = ChannelAndNote{Channel: channelIndex, Note: e.approx.ApproxValue}
		}

		channels = append(channels, channel)
		remaining = deferred
	}

	return channels, result
}

// ApplyFullKeyboardTuning distributes mapping across as few MIDI channels as
// possible, detuning every MIDI note independently per channel.
func ApplyFullKeyboardTuning[K comparable](mapping KeyboardMapping[K], keys []K) ([]*FullKeyboardDetuning, map[K]ChannelAndNote) {
	entries := collectApproximations(mapping, keys)
	channels, result := applyTuningInternal(entries, func(n Note) Note { return n })

	out := make([]*FullKeyboardDetuning, len(channels))
	for i, c := range channels {
		out[i] = &FullKeyboardDetuning{tuningMap: c}
	}
	return out, result
}

// ApplyOctaveBasedTuning distributes mapping across as few MIDI channels as
// possible, detuning by note letter (pitch class) rather than by individual
// MIDI note - cheaper on synthesizers that only support a 12-entry
// octave-tuning table, at the cost of needing more channels for
// non-octave-repeating scales.
func ApplyOctaveBasedTuning[K comparable](mapping KeyboardMapping[K], keys []K) ([]*OctaveBasedDetuning, map[K]ChannelAndNote) {
	entries := collectApproximations(mapping, keys)
	channels, result := applyTuningInternal(entries, noteLetterOf)

	out := make([]*OctaveBasedDetuning, len(channels))
	for i, c := range channels {
		out[i] = &OctaveBasedDetuning{tuningMap: c}
	}
	return out, result
}

// ApplyChannelBasedTuning distributes mapping across channels that each
// carry a single detuning: since every key shares one group, a channel takes
// every key whose deviation matches its detuning within tolerance, and the
// result is one channel per distinct deviation (four channels for 16-EDO).
func ApplyChannelBasedTuning[K comparable](mapping KeyboardMapping[K], keys []K) ([]Ratio, map[K]ChannelAndNote) {
	entries := collectApproximations(mapping, keys)
	channels, result := applyTuningInternal(entries, func(Note) struct{} { return struct{}{} })

	out := make([]Ratio, len(channels))
	for i, c := range channels {
		out[i] = c[struct{}{}]
	}
	return out, result
}
