package engine

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/node"
)

// SetParam mutates a single named parameter on an existing node. The
// parameter must already exist on the node's state — an unrecognized
// name is a protocol error and panics, per spec.md section 4.F.
func (e *Engine) SetParam(id core.NodeId, name string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes.nodes[id]
	if !ok {
		panic("noisegraph/engine: SET_PARAM for unknown nodeId")
	}
	state := n.RawState()
	if _, ok := state.Params[name]; !ok {
		panic("noisegraph/engine: SET_PARAM for unrecognized paramName")
	}
	state.Params[name] = value
}

// SetState replaces an existing node's full state record, preserving
// its kind (a kind change panics) and its internal DSP state.
func (e *Engine) SetState(id core.NodeId, state *core.NodeState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes.nodes[id]
	if !ok {
		panic("noisegraph/engine: SET_STATE for unknown nodeId")
	}
	if n.Kind() != state.Type {
		panic("noisegraph/engine: kind change for existing node is a protocol violation")
	}
	n.SetState(state)
}

// SetCell mutates one pattern cell on a sequencer node.
func (e *Engine) SetCell(id core.NodeId, patIdx, stepIdx, rowIdx int, value core.Cell) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes.nodes[id]
	if !ok {
		panic("noisegraph/engine: SET_CELL for unknown nodeId")
	}
	cs, ok := n.(node.CellSetter)
	if !ok {
		panic("noisegraph/engine: SET_CELL for a node kind that is not a sequencer")
	}
	cs.SetCell(patIdx, stepIdx, rowIdx, value)
}

// QueuePattern arms a replacement pattern on a sequencer node to take
// effect at the next pattern-wrap boundary.
func (e *Engine) QueuePattern(id core.NodeId, patIdx int, patData core.Pattern) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes.nodes[id]
	if !ok {
		panic("noisegraph/engine: QUEUE_PATTERN for unknown nodeId")
	}
	pq, ok := n.(node.PatternQueuer)
	if !ok {
		panic("noisegraph/engine: QUEUE_PATTERN for a node kind that is not a sequencer")
	}
	pq.QueuePattern(patIdx, patData)
}

// NoteOn delivers a decoded MIDI note-on/note-off event to a MidiIn
// node.
func (e *Engine) NoteOn(id core.NodeId, note int, velocity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes.nodes[id]
	if !ok {
		panic("noisegraph/engine: NOTE_ON for unknown nodeId")
	}
	no, ok := n.(node.NoteOner)
	if !ok {
		panic("noisegraph/engine: NOTE_ON for a node kind that is not MidiIn")
	}
	no.NoteOn(note, velocity)
}
