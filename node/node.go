// Package node implements the per-node DSP state machines (component C
// of SPEC_FULL.md): one Go type per node kind, each wrapping the
// relevant dsp primitive and exposing the kind's exact per-sample
// contract as an explicit method, per spec.md section 9's "expose these
// as explicit named entry points per kind" design note rather than a
// single generic Update(args ...float64).
//
// Grounded on the teacher's audio/voice.go (Voice interface, TonalVoice
// phase accumulation) and audio/generator.go (oscillator/applyEnvelope).
package node

import (
	"math"

	"github.com/lixenwraith/noisegraph/core"
)

// Node is the common surface every kind implements: identity, access to
// its own persisted state, and live reconfiguration. The kind-specific
// per-sample operations (Update, Write/Read, NoteOn, ...) are NOT part
// of this interface — the compiled program (engine.Program) knows each
// node's concrete type and calls its named method directly, matching
// spec.md's "tagged sum over node kinds, switch on the tag selects the
// update rule" design note.
type Node interface {
	Kind() core.NodeKind
	RawState() *core.NodeState
	SetState(*core.NodeState)
}

// assertKind panics if a reconfiguration attempts to change a node's
// kind in place — a protocol violation per SPEC_FULL.md section 7.
func assertKind(have, want core.NodeKind) {
	if have != want {
		panic("noisegraph/node: kind change for existing node is a protocol violation")
	}
}

// wrap01 folds a phase accumulator back into [0, 1).
func wrap01(phase float64) float64 {
	if phase >= 1 {
		return phase - math.Floor(phase)
	}
	if phase < 0 {
		return phase - math.Floor(phase)
	}
	return phase
}

// CellSetter is implemented by sequencer node kinds (MonoSeq, GateSeq)
// that accept SET_CELL control messages.
type CellSetter interface {
	SetCell(patIdx, stepIdx, rowIdx int, value core.Cell)
}

// PatternQueuer is implemented by sequencer node kinds that accept
// QUEUE_PATTERN control messages.
type PatternQueuer interface {
	QueuePattern(patIdx int, patData core.Pattern)
}

// NoteOner is implemented by node kinds that accept NOTE_ON control
// messages (MidiIn).
type NoteOner interface {
	NoteOn(note int, velocity float64)
}

// Unknown is the passive fallback for any node kind identifier the
// runtime does not recognize. It holds state but exposes no per-sample
// operation — the compiled program never calls into it, per SPEC_FULL.md
// section 6 ("passive graph member").
type Unknown struct {
	state *core.NodeState
}

// NewUnknown returns a passive node holding the given state verbatim.
func NewUnknown(state *core.NodeState) *Unknown {
	return &Unknown{state: state}
}

func (n *Unknown) Kind() core.NodeKind      { return core.KindUnknown }
func (n *Unknown) RawState() *core.NodeState { return n.state }
func (n *Unknown) SetState(ns *core.NodeState) {
	n.state = ns
}
