package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
	"github.com/lixenwraith/noisegraph/music"
	"github.com/lixenwraith/noisegraph/sequencer"
)

// MonoSeq is the monophonic step sequencer: one gate/freq pair driven by
// a materialized scale, per SPEC_FULL.md section 4.D. Grounded on the
// teacher's audio/track.go MelodyTrack trigger dance, generalized from
// "allocate and trigger a tonal voice" to "emit a gate value."
type MonoSeq struct {
	state *core.NodeState
	id    core.NodeId
	send  feedback.Sender

	base  *sequencer.Base
	scale []music.ScaleNote
	gate  sequencer.Gate
	freq  float64
}

// NewMonoSeq builds a MonoSeq over the node's configured patterns and
// materializes its scale from ScaleRoot/ScaleName/NumOctaves.
func NewMonoSeq(id core.NodeId, state *core.NodeState, send feedback.Sender) *MonoSeq {
	n := &MonoSeq{
		id:    id,
		state: state,
		send:  send,
		scale: music.MaterializeScale(state.ScaleRoot, state.ScaleName, state.NumOctaves),
		base:  sequencer.NewBase(state.Patterns, state.CurPattern),
	}
	n.base.SetCurStep = func(stepIdx int) {
		if send != nil {
			send.Send(feedback.Message{Kind: feedback.SetCurStep, NodeId: id, StepIdx: stepIdx})
		}
	}
	n.base.SetPattern = func(patIdx int) {
		if send != nil {
			send.Send(feedback.Message{Kind: feedback.SetPattern, NodeId: id, PatIdx: patIdx})
		}
	}
	n.base.TrigRow = n.trigRow
	return n
}

func (n *MonoSeq) trigRow(rowIdx int, time float64) {
	n.gate.Trig(time)
	if rowIdx >= 0 && rowIdx < len(n.scale) {
		n.freq = n.scale[rowIdx].Freq
	}
}

func (n *MonoSeq) Kind() core.NodeKind       { return core.KindMonoSeq }
func (n *MonoSeq) RawState() *core.NodeState { return n.state }

// SetState refreshes parameters, patterns and the materialized scale
// without touching clockCnt/nextStep/clockSgn — a recompile is not a
// rewind, per SPEC_FULL.md section 4.D.
func (n *MonoSeq) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindMonoSeq)
	n.state = ns
	n.scale = music.MaterializeScale(ns.ScaleRoot, ns.ScaleName, ns.NumOctaves)
	n.base.Refresh(ns.Patterns, ns.CurPattern)
}

// SetCell clears every other row at stepIdx before setting the target
// cell: only one note per step is representable monophonically.
func (n *MonoSeq) SetCell(patIdx, stepIdx, rowIdx int, value core.Cell) {
	grid := n.base.Patterns[patIdx]
	for r := range grid[stepIdx] {
		grid[stepIdx][r] = 0
	}
	grid[stepIdx][rowIdx] = value
}

// QueuePattern arms patData to become current at the next pattern wrap.
func (n *MonoSeq) QueuePattern(patIdx int, patData core.Pattern) {
	n.base.QueuePattern(patIdx, patData)
}

// Update advances the shared step machine and the gate/off/pretrig/on
// machine, releasing the gate once held longer than gateTime.
func (n *MonoSeq) Update(clock, time, gateTime float64) (freq, gate float64) {
	n.base.Update(clock, time)
	n.gate.ReleaseIfExpired(time, gateTime)
	return n.freq, n.gate.Advance()
}

// GateSeq is the polyphonic-gates sequencer: numRows independent gate
// state machines driven by the same shared clock-edge step machine, per
// SPEC_FULL.md section 4.D.
type GateSeq struct {
	state *core.NodeState
	id    core.NodeId
	send  feedback.Sender

	base  *sequencer.Base
	rows  []sequencer.Gate
	gates []float64
}

func NewGateSeq(id core.NodeId, state *core.NodeState, send feedback.Sender) *GateSeq {
	n := &GateSeq{
		id:    id,
		state: state,
		send:  send,
		base:  sequencer.NewBase(state.Patterns, state.CurPattern),
		rows:  make([]sequencer.Gate, state.NumRows),
		gates: make([]float64, state.NumRows),
	}
	n.base.SetCurStep = func(stepIdx int) {
		if send != nil {
			send.Send(feedback.Message{Kind: feedback.SetCurStep, NodeId: id, StepIdx: stepIdx})
		}
	}
	n.base.SetPattern = func(patIdx int) {
		if send != nil {
			send.Send(feedback.Message{Kind: feedback.SetPattern, NodeId: id, PatIdx: patIdx})
		}
	}
	n.base.TrigRow = func(rowIdx int, time float64) {
		if rowIdx >= 0 && rowIdx < len(n.rows) {
			n.rows[rowIdx].Trig(time)
		}
	}
	return n
}

func (n *GateSeq) Kind() core.NodeKind       { return core.KindGateSeq }
func (n *GateSeq) RawState() *core.NodeState { return n.state }

func (n *GateSeq) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindGateSeq)
	n.state = ns
	n.base.Refresh(ns.Patterns, ns.CurPattern)
	if ns.NumRows != len(n.rows) {
		n.rows = make([]sequencer.Gate, ns.NumRows)
		n.gates = make([]float64, ns.NumRows)
	}
}

func (n *GateSeq) SetCell(patIdx, stepIdx, rowIdx int, value core.Cell) {
	n.base.SetCell(patIdx, stepIdx, rowIdx, value)
}

func (n *GateSeq) QueuePattern(patIdx int, patData core.Pattern) {
	n.base.QueuePattern(patIdx, patData)
}

// Update advances every row's gate machine, releasing a row once it has
// been on longer than the node's gateTime param, and returns the gates
// array, emitted reversed so row 0 sits at the bottom (last index) of the
// output, per SPEC_FULL.md section 4.D.
func (n *GateSeq) Update(clock, time float64) []float64 {
	n.base.Update(clock, time)
	gateTime := n.state.Param("gateTime")
	for i := range n.rows {
		n.rows[i].ReleaseIfExpired(time, gateTime)
		n.gates[len(n.rows)-1-i] = n.rows[i].Advance()
	}
	return n.gates
}
