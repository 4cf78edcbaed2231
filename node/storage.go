package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/dsp"
)

// Hold is a sample-and-hold node: Write latches value on a rising edge
// of trig, Read returns the last latched value. Split into two entry
// points so the compiler can place writer and reader on distinct graph
// nodes, per SPEC_FULL.md section 4.C.
type Hold struct {
	state   *core.NodeState
	value   float64
	trigSgn bool
}

func NewHold(state *core.NodeState) *Hold { return &Hold{state: state} }

func (n *Hold) Kind() core.NodeKind       { return core.KindHold }
func (n *Hold) RawState() *core.NodeState { return n.state }
func (n *Hold) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindHold)
	n.state = ns
}

func (n *Hold) Write(value, trig float64) {
	rising := trig > 0 && !n.trigSgn
	n.trigSgn = trig > 0
	if rising {
		n.value = value
	}
}

func (n *Hold) Read() float64 {
	return n.value
}

// Delay wraps dsp.DelayLine, split into Write and Read entry points so
// the compiler can wire a writer node and a reader node onto the same
// buffer, per SPEC_FULL.md section 4.B/4.C.
type Delay struct {
	state *core.NodeState
	line  *dsp.DelayLine
}

func NewDelay(state *core.NodeState) *Delay {
	return &Delay{state: state, line: dsp.NewDelayLine(core.SampleRate)}
}

func (n *Delay) Kind() core.NodeKind       { return core.KindDelay }
func (n *Delay) RawState() *core.NodeState { return n.state }
func (n *Delay) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindDelay)
	n.state = ns
}

func (n *Delay) Write(sample, delayTime float64) {
	n.line.Write(sample, delayTime)
}

func (n *Delay) Read() float64 {
	return n.line.Read()
}
