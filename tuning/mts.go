package tuning

import "math"

// Sysex framing bytes shared by every MIDI Tuning Standard message.
const (
	sysexStart = 0xf0
	sysexEnd   = 0xf7

	sysexRealTime    = 0x7f
	sysexNonRealTime = 0x7e

	midiTuningStandard = 0x08

	singleNoteTuningChangeSubID       = 0x02
	scaleOctaveTuning1ByteFormatSubID = 0x08

	deviceIDBroadcast = 0x7f

	u14UpperBound = float64(1 << 14)
)

// DeviceID is the 7-bit device identifier a MIDI Tuning Standard sysex
// message targets.
type DeviceID struct {
	value uint8
}

// DeviceIDBroadcast is the reserved all-devices identifier.
func DeviceIDBroadcast() DeviceID { return DeviceID{value: deviceIDBroadcast} }

// DeviceIDFrom validates a raw 7-bit device id.
func DeviceIDFrom(id uint8) (DeviceID, bool) {
	if id >= 128 {
		return DeviceID{}, false
	}
	return DeviceID{value: id}, true
}

// AsUint8 returns the raw id byte.
func (d DeviceID) AsUint8() uint8 { return d.value }

// MTSOptions parameterizes a single-note tuning change message.
type MTSOptions struct {
	DeviceID      DeviceID
	TuningProgram uint8
}

// DefaultMTSOptions broadcasts to every device on tuning program 0.
func DefaultMTSOptions() MTSOptions {
	return MTSOptions{DeviceID: DeviceIDBroadcast()}
}

// MTSError reports why a sysex message could not be built.
type MTSError int

const (
	// TuningChangeListTooLong means more than 128 notes were supplied.
	TuningChangeListTooLong MTSError = iota
	// TuningProgramOutOfRange means the tuning program was >= 128.
	TuningProgramOutOfRange
	// DetuningOutOfRange means an octave-tuning entry fell outside
	// [-64, 63] cents.
	DetuningOutOfRange
	// ChannelOutOfRange means a channel number was >= 16.
	ChannelOutOfRange
)

func (e MTSError) Error() string {
	switch e {
	case TuningChangeListTooLong:
		return "tuning change list has more than 128 entries"
	case TuningProgramOutOfRange:
		return "tuning program must be in [0, 128)"
	case DetuningOutOfRange:
		return "detuning exceeds the allowed range of [-64, 63] cents"
	case ChannelOutOfRange:
		return "channel number must be in [0, 16)"
	default:
		return "unknown MIDI Tuning Standard error"
	}
}

// SingleNoteTuningChangeEntry is one key's desired pitch, before it has been
// rounded to a 12-EDO target note plus a 14-bit fractional detune.
type SingleNoteTuningChangeEntry struct {
	Key   Note
	Pitch Pitch
}

// singleNoteTuningChange is a resolved wire-format entry.
type singleNoteTuningChange struct {
	key          Note
	targetNote   Note
	detuneAsU14  uint16
}

func newSingleNoteTuningChange(key Note, pitch Pitch) singleNoteTuningChange {
	approximation := DefaultConcertPitch.FindByPitch(pitch)

	targetNote := approximation.ApproxValue
	detune := roundHalfAwayFromZero(approximation.Deviation.AsSemitones() * u14UpperBound)

	// Normalize the detune range from [-50c..50c] to [0c..100c].
	if detune < 0 {
		targetNote = NoteFromMIDINumber(targetNote.MIDINumber() - 1)
		detune += u14UpperBound
	}

	return singleNoteTuningChange{key: key, targetNote: targetNote, detuneAsU14: uint16(detune)}
}

func checkedMIDINumber(n Note) (byte, bool) {
	midi := n.MIDINumber()
	if midi < 0 || midi > 127 {
		return 0, false
	}
	return byte(midi), true
}

// SingleNoteTuningChangeMessage is one or more MIDI Tuning Standard "Single
// Note Tuning Change" sysex calls (split into two 64-note halves once the
// key list reaches 128 entries, since the message format caps at 128 notes
// per call).
type SingleNoteTuningChangeMessage struct {
	sysexCalls      [][]byte
	retunedNotes    []singleNoteTuningChange
	outOfRangeNotes []singleNoteTuningChange
}

// NewSingleNoteTuningChangeMessage builds a message from raw key/pitch
// entries. Entries whose key or rounded target note falls outside the
// 7-bit MIDI range are dropped from the sysex payload and reported via
// OutOfRangeNotes instead.
func NewSingleNoteTuningChangeMessage(options MTSOptions, entries []SingleNoteTuningChangeEntry) (SingleNoteTuningChangeMessage, error) {
	if options.TuningProgram >= 128 {
		return SingleNoteTuningChangeMessage{}, TuningProgramOutOfRange
	}

	var sysexTuningList []byte
	var retuned, outOfRange []singleNoteTuningChange

	for i, entry := range entries {
		if i >= 128 {
			return SingleNoteTuningChangeMessage{}, TuningChangeListTooLong
		}

		change := newSingleNoteTuningChange(entry.Key, entry.Pitch)
		source, sourceOK := checkedMIDINumber(change.key)
		target, targetOK := checkedMIDINumber(change.targetNote)

		if sourceOK && targetOK {
			pitchMSB := byte(change.detuneAsU14 >> 7)
			pitchLSB := byte(change.detuneAsU14 & 0x7f)
			sysexTuningList = append(sysexTuningList, source, target, pitchMSB, pitchLSB)
			retuned = append(retuned, change)
		} else {
			outOfRange = append(outOfRange, change)
		}
	}

	createSysex := func(list []byte) []byte {
		out := make([]byte, 0, len(list)+7)
		out = append(out,
			sysexStart, sysexRealTime, options.DeviceID.AsUint8(),
			midiTuningStandard, singleNoteTuningChangeSubID,
			options.TuningProgram, byte(len(list)/4),
		)
		out = append(out, list...)
		out = append(out, sysexEnd)
		return out
	}

	var sysexCalls [][]byte
	if len(retuned) == 128 {
		sysexCalls = append(sysexCalls, createSysex(sysexTuningList[:256]))
		sysexCalls = append(sysexCalls, createSysex(sysexTuningList[256:]))
	} else {
		sysexCalls = append(sysexCalls, createSysex(sysexTuningList))
	}

	return SingleNoteTuningChangeMessage{
		sysexCalls:      sysexCalls,
		retunedNotes:    retuned,
		outOfRangeNotes: outOfRange,
	}, nil
}

// SysexBytes returns the sysex call(s) making up this message.
func (m SingleNoteTuningChangeMessage) SysexBytes() [][]byte { return m.sysexCalls }

// NumRetunedNotes is the number of keys that made it into the sysex payload.
func (m SingleNoteTuningChangeMessage) NumRetunedNotes() int { return len(m.retunedNotes) }

// NumOutOfRangeNotes is the number of keys dropped for falling outside the
// representable MIDI note range.
func (m SingleNoteTuningChangeMessage) NumOutOfRangeNotes() int { return len(m.outOfRangeNotes) }

// Channels selects which of the 16 MIDI channels a scale/octave tuning
// message applies to.
type Channels struct {
	all  bool
	some map[uint8]struct{}
}

// AllChannels selects every one of the 16 channels.
func AllChannels() Channels { return Channels{all: true} }

// SomeChannels selects an explicit channel subset (each must be < 16).
func SomeChannels(channels ...uint8) Channels {
	set := make(map[uint8]struct{}, len(channels))
	for _, c := range channels {
		set[c] = struct{}{}
	}
	return Channels{some: set}
}

// MTSOctaveOptions parameterizes a scale/octave tuning message.
type MTSOctaveOptions struct {
	DeviceID DeviceID
	Channels Channels
}

// ScaleOctaveTuningMessage is a MIDI Tuning Standard "Scale/Octave Tuning,
// 1 byte format" sysex call: twelve per-note-letter detunings, each a
// single byte covering [-64, 63] cents.
type ScaleOctaveTuningMessage struct {
	sysexCall []byte
}

// NewScaleOctaveTuningMessage builds a message from twelve cents values
// indexed by note letter (0 = C ... 11 = B).
func NewScaleOctaveTuningMessage(options MTSOctaveOptions, centsByLetter [12]float64) (ScaleOctaveTuningMessage, error) {
	out := make([]byte, 0, 20)
	out = append(out,
		sysexStart, sysexNonRealTime, options.DeviceID.AsUint8(),
		midiTuningStandard, scaleOctaveTuning1ByteFormatSubID,
	)

	if options.Channels.all {
		out = append(out, 0b0000_0011, 0b0111_1111, 0b0111_1111)
	} else {
		var rows [3]byte
		for channel := range options.Channels.some {
			if channel >= 16 {
				return ScaleOctaveTuningMessage{}, ChannelOutOfRange
			}
			bitPosition := channel % 7
			rowToUse := channel / 7
			rows[rowToUse] |= 1 << bitPosition
		}
		out = append(out, rows[2], rows[1], rows[0])
	}

	for _, cents := range centsByLetter {
		value := math.Round(cents) + 64
		if value < 0 || value > 127 {
			return ScaleOctaveTuningMessage{}, DetuningOutOfRange
		}
		out = append(out, byte(value))
	}
	out = append(out, sysexEnd)

	return ScaleOctaveTuningMessage{sysexCall: out}, nil
}

// SysexBytes returns the sysex call.
func (m ScaleOctaveTuningMessage) SysexBytes() []byte { return m.sysexCall }
