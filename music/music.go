// Package music holds the note/frequency and scale-materialization
// primitives (component A of SPEC_FULL.md), grounded on the teacher's
// audio.NoteFreq/audio.NoteFrequencies table in audio/note.go.
package music

import "math"

// ScaleNote is one materialized member of a scale: its absolute MIDI
// note and its precomputed frequency, so sequencer nodes never need to
// recompute Freq on every step (mirrors audio/pattern.go's NoteTrigger
// resolving a note offset against a root once, not per sample).
type ScaleNote struct {
	MIDI int
	Freq float64
}

// Scale interval tables, GLOSSARY verbatim.
var scaleIntervals = map[string][]int{
	"major":           {2, 2, 1, 2, 2, 2},
	"naturalMinor":    {2, 1, 2, 2, 1, 2},
	"harmonicMinor":   {2, 1, 2, 2, 1, 3},
	"majorPentatonic": {2, 2, 3, 2},
	"minorPentatonic": {3, 2, 2, 3},
	"blues":           {3, 2, 1, 1, 3},
	"chromatic":       {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
}

// Freq converts a MIDI note number to frequency in Hz, with an optional
// cent offset folded into the exponent, per SPEC_FULL.md section 4.A.
func Freq(note int, centsOffset float64) float64 {
	exp := (float64(note-69) + centsOffset/100) / 12
	return 440 * math.Exp2(exp)
}

// MaterializeScale builds the ordered list of scale notes for
// (rootMidiNote, scaleName, numOctaves), applying the named interval
// table repeated across the requested octaves and ending with the root
// shifted by numOctaves, per SPEC_FULL.md section 4.A. An unrecognized
// scale name falls back to chromatic, matching the permissive
// "unrecognized parameters are ignored" stance core.NodeState documents
// for every other kind-specific field.
func MaterializeScale(root int, name string, octaves int) []ScaleNote {
	intervals, ok := scaleIntervals[name]
	if !ok {
		intervals = scaleIntervals["chromatic"]
	}
	if octaves < 1 {
		octaves = 1
	}

	notes := make([]ScaleNote, 0, (len(intervals)+1)*octaves+1)
	for o := 0; o < octaves; o++ {
		cur := root + 12*o
		notes = append(notes, ScaleNote{MIDI: cur, Freq: Freq(cur, 0)})
		for _, step := range intervals {
			cur += step
			notes = append(notes, ScaleNote{MIDI: cur, Freq: Freq(cur, 0)})
		}
	}
	notes = append(notes, ScaleNote{MIDI: root + 12*octaves, Freq: Freq(root+12*octaves, 0)})
	return notes
}
