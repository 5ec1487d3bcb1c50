package tuning

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ImportScl parses the Scala .scl text format: a description line, a note
// count, then that many pitch lines (each a cents value containing '.', or
// an integer or n/d fraction otherwise). Blank lines and lines starting
// with '!' are comments and are skipped.
func ImportScl(r io.Reader) (*Scl, error) {
	lines, err := readSignificantLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, SclImportError{Kind: SclExpectingDescription}
	}

	description := lines[0].text
	if len(lines) < 2 {
		return nil, SclImportError{Kind: SclExpectingNumberOfNotes}
	}

	numNotes, err := strconv.ParseUint(mainItem(lines[1].text), 10, 16)
	if err != nil {
		return nil, SclImportError{Kind: SclParseIntValue, Line: lines[1].number}
	}

	builder := NewSclBuilder()
	for _, line := range lines[2:] {
		item := mainItem(line.text)
		switch {
		case strings.Contains(item, "."):
			cents, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, SclImportError{Kind: SclParseCentsValue, Line: line.number}
			}
			builder = builder.PushCents(cents)
		case strings.Contains(item, "/"):
			numer, denom, ok := strings.Cut(item, "/")
			n, err := strconv.ParseUint(numer, 10, 64)
			if err != nil {
				return nil, SclImportError{Kind: SclParseNumer, Line: line.number}
			}
			if !ok {
				return nil, SclImportError{Kind: SclParseDenom, Line: line.number}
			}
			d, err := strconv.ParseUint(denom, 10, 64)
			if err != nil {
				return nil, SclImportError{Kind: SclParseDenom, Line: line.number}
			}
			builder = builder.PushFraction(n, d)
		default:
			n, err := strconv.ParseUint(item, 10, 64)
			if err != nil {
				return nil, SclImportError{Kind: SclParseIntValue, Line: line.number}
			}
			builder = builder.PushInt(n)
		}
	}

	scl, err := builder.BuildWithDescription(description)
	if err != nil {
		return nil, SclImportError{Kind: SclBuildFailed, Cause: err}
	}
	if uint64(scl.NumItems()) != numNotes {
		return nil, SclImportError{Kind: SclInconsistentNumberOfNotes}
	}
	return scl, nil
}

// ImportKbm parses the Scala .kbm text format: map size, first/last mapped
// MIDI note, mapping origin, reference note/pitch, formal octave size, then
// one mapping entry per line ("x"/"X" for unmapped, or a scale degree).
func ImportKbm(r io.Reader) (*Kbm, error) {
	lines, err := readSignificantLines(r)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		kind KbmErrorKind
	}{
		{"map size", KbmExpectingMapSize},
		{"first MIDI note", KbmExpectingFirstMidiNote},
		{"last MIDI note", KbmExpectingLastMidiNote},
		{"origin", KbmExpectingOrigin},
		{"reference note", KbmExpectingReferenceNote},
		{"reference pitch", KbmExpectingReferencePitch},
		{"formal octave", KbmExpectingFormalOctave},
	}
	if len(lines) < len(fields) {
		return nil, KbmImportError{Kind: fields[len(lines)].kind}
	}

	numItems, err := strconv.ParseUint(mainItem(lines[0].text), 10, 16)
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[0].number}
	}
	firstNote, err := strconv.Atoi(mainItem(lines[1].text))
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[1].number}
	}
	lastNote, err := strconv.Atoi(mainItem(lines[2].text))
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[2].number}
	}
	origin, err := strconv.Atoi(mainItem(lines[3].text))
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[3].number}
	}
	refNote, err := strconv.Atoi(mainItem(lines[4].text))
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[4].number}
	}
	refPitch, err := strconv.ParseFloat(mainItem(lines[5].text), 64)
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseFloatValue, Line: lines[5].number}
	}
	formalOctave, err := strconv.Atoi(mainItem(lines[6].text))
	if err != nil {
		return nil, KbmImportError{Kind: KbmParseIntValue, Line: lines[6].number}
	}

	root := KbmRoot{
		RefKey:     PianoKeyFromMIDINumber(refNote),
		RefPitch:   PitchFromHz(refPitch),
		RootOffset: origin - refNote,
	}
	builder := NewKbmBuilder(root).
		Range(PianoKeyFromMIDINumber(firstNote), PianoKeyFromMIDINumber(lastNote).PlusSteps(1)).
		FormalOctave(formalOctave)

	mapLines := lines[7:]
	for _, line := range mapLines {
		item := mainItem(line.text)
		if item == "x" || item == "X" {
			builder = builder.PushUnmappedKey()
			continue
		}
		degree, err := strconv.Atoi(item)
		if err != nil {
			return nil, KbmImportError{Kind: KbmParseMappingEntry, Line: line.number}
		}
		builder = builder.PushMappedKey(degree)
	}
	for i := len(mapLines); i < int(numItems); i++ {
		builder = builder.PushUnmappedKey()
	}

	kbm, err := builder.Build()
	if err != nil {
		return nil, KbmImportError{Kind: KbmBuildFailed, Cause: err}
	}
	if uint64(kbm.NumItems()) > numItems {
		return nil, KbmImportError{Kind: KbmInconsistentNumberOfItems}
	}
	return kbm, nil
}

type significantLine struct {
	number int
	text   string
}

func readSignificantLines(r io.Reader) ([]significantLine, error) {
	var lines []significantLine
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "!") {
			continue
		}
		lines = append(lines, significantLine{number: lineNumber, text: trimmed})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func mainItem(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// SclErrorKind classifies why an .scl import failed.
type SclErrorKind int

const (
	SclExpectingDescription SclErrorKind = iota
	SclExpectingNumberOfNotes
	SclInconsistentNumberOfNotes
	SclParseIntValue
	SclParseCentsValue
	SclParseNumer
	SclParseDenom
	SclBuildFailed
)

// SclImportError reports a malformed .scl file, with the 1-based line
// number at fault where applicable.
type SclImportError struct {
	Kind  SclErrorKind
	Line  int
	Cause error
}

func (e SclImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scl import failed at line %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("scl import failed at line %d: %s", e.Line, sclErrorText(e.Kind))
}

func (e SclImportError) Unwrap() error { return e.Cause }

func sclErrorText(kind SclErrorKind) string {
	switch kind {
	case SclExpectingDescription:
		return "expecting a description line"
	case SclExpectingNumberOfNotes:
		return "expecting a note count line"
	case SclInconsistentNumberOfNotes:
		return "note count does not match the number of pitch lines"
	case SclParseIntValue:
		return "invalid integer value"
	case SclParseCentsValue:
		return "invalid cents value"
	case SclParseNumer:
		return "invalid fraction numerator"
	case SclParseDenom:
		return "invalid fraction denominator"
	case SclBuildFailed:
		return "scale build failed"
	default:
		return "unknown error"
	}
}

// KbmErrorKind classifies why a .kbm import failed.
type KbmErrorKind int

const (
	KbmExpectingMapSize KbmErrorKind = iota
	KbmExpectingFirstMidiNote
	KbmExpectingLastMidiNote
	KbmExpectingOrigin
	KbmExpectingReferenceNote
	KbmExpectingReferencePitch
	KbmExpectingFormalOctave
	KbmInconsistentNumberOfItems
	KbmParseIntValue
	KbmParseFloatValue
	KbmParseMappingEntry
	KbmBuildFailed
)

// KbmImportError reports a malformed .kbm file, with the 1-based line
// number at fault where applicable (zero for a missing-field error, which
// has no line to point to).
type KbmImportError struct {
	Kind  KbmErrorKind
	Line  int
	Cause error
}

func (e KbmImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kbm import failed at line %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("kbm import failed at line %d: %s", e.Line, kbmErrorText(e.Kind))
}

func (e KbmImportError) Unwrap() error { return e.Cause }

func kbmErrorText(kind KbmErrorKind) string {
	switch kind {
	case KbmExpectingMapSize:
		return "expecting a map size line"
	case KbmExpectingFirstMidiNote:
		return "expecting a first MIDI note line"
	case KbmExpectingLastMidiNote:
		return "expecting a last MIDI note line"
	case KbmExpectingOrigin:
		return "expecting an origin line"
	case KbmExpectingReferenceNote:
		return "expecting a reference note line"
	case KbmExpectingReferencePitch:
		return "expecting a reference pitch line"
	case KbmExpectingFormalOctave:
		return "expecting a formal octave line"
	case KbmInconsistentNumberOfItems:
		return "map size does not match the number of mapping lines"
	case KbmParseIntValue:
		return "invalid integer value"
	case KbmParseFloatValue:
		return "invalid float value"
	case KbmParseMappingEntry:
		return `invalid mapping entry, expected "x", "X" or a scale degree`
	case KbmBuildFailed:
		return "keyboard mapping build failed"
	default:
		return "unknown error"
	}
}
