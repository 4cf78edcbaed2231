package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/music"
	"github.com/lixenwraith/noisegraph/sequencer"
)

// MidiIn exposes the single currently-held MIDI note as [freq, gate],
// per SPEC_FULL.md section 4.C and the module's monophonic non-goal
// (only one held note, no voice allocation). Reuses sequencer.GateState
// for the off/pretrig/on tagging shared with MonoSeq/GateSeq.
type MidiIn struct {
	state     *core.NodeState
	noteNo    int
	freq      float64
	gateState sequencer.GateState
}

func NewMidiIn(state *core.NodeState) *MidiIn {
	return &MidiIn{gateState: sequencer.GateOff, state: state}
}

func (n *MidiIn) Kind() core.NodeKind       { return core.KindMidiIn }
func (n *MidiIn) RawState() *core.NodeState { return n.state }
func (n *MidiIn) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindMidiIn)
	n.state = ns
}

// NoteOn handles a decoded note-on/note-off event. A fresh trigger while
// no note is held goes straight to the on state; a trigger arriving
// while a note is already held (or mid-pretrig) is a retrigger and
// forces one pretrig sample first, so a downstream ADSR sees a genuine
// rising edge. velocity == 0 for the currently-held note releases it.
// This distinguishes "fresh" from "retrigger" even though spec.md
// section 4.C's state-machine description sets state := pretrig
// unconditionally — section 8's worked retrigger scenario only shows the
// forced zero-gate sample on the second NOTE_ON, not the first, which
// this resolves in favor of.
func (n *MidiIn) NoteOn(note int, velocity float64) {
	if velocity > 0 {
		n.noteNo = note
		n.freq = music.Freq(note, 0)
		if n.gateState == sequencer.GateOff {
			n.gateState = sequencer.GateOn
		} else {
			n.gateState = sequencer.GatePretrig
		}
		return
	}
	if note == n.noteNo {
		n.gateState = sequencer.GateOff
	}
}

// Update returns this sample's [freq, gate] pair, forcing a one-sample
// zero-gate pretrig even when a note is already sounding so a downstream
// ADSR always sees a fresh rising edge on retrigger.
func (n *MidiIn) Update() (freq, gate float64) {
	switch n.gateState {
	case sequencer.GateOff:
		return n.freq, 0
	case sequencer.GatePretrig:
		n.gateState = sequencer.GateOn
		return 0, 0
	case sequencer.GateOn:
		return n.freq, 1
	default:
		panic("noisegraph/node: unreachable MidiIn gate state")
	}
}
