// Package control implements the inbound message union and dispatcher
// (component F of SPEC_FULL.md). Grounded on the teacher's
// audio/engine.go AudioCommand/SendRealTime/SendState typed-command-in
// pattern, generalized from two fixed queues to the six message kinds
// spec.md names.
package control

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/engine"
)

// Kind tags one of the six inbound message shapes.
type Kind int

const (
	NewUnit Kind = iota
	SetParam
	SetState
	SetCell
	QueuePattern
	NoteOn
)

// Message is the tagged union of inbound control events, per
// SPEC_FULL.md section 4.F. Only the fields relevant to Kind are
// meaningful.
type Message struct {
	Kind Kind

	Unit engine.CompiledUnit // NewUnit

	NodeId core.NodeId

	ParamName  string  // SetParam
	ParamValue float64 // SetParam

	State *core.NodeState // SetState

	PatIdx  int         // SetCell, QueuePattern
	StepIdx int         // SetCell
	RowIdx  int         // SetCell
	Value   core.Cell   // SetCell
	PatData core.Pattern // QueuePattern

	NoteNo   int     // NoteOn
	Velocity float64 // NoteOn
}

// Dispatcher applies inbound Messages to an Engine. Any tag outside the
// fixed set is a protocol error and panics, per spec.md section 4.F.
type Dispatcher struct{}

// NewDispatcher returns a stateless Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch applies msg to eng, mutating live node state between audio
// samples.
func (d *Dispatcher) Dispatch(eng *engine.Engine, msg Message) error {
	switch msg.Kind {
	case NewUnit:
		return eng.NewUnit(msg.Unit)
	case SetParam:
		eng.SetParam(msg.NodeId, msg.ParamName, msg.ParamValue)
	case SetState:
		eng.SetState(msg.NodeId, msg.State)
	case SetCell:
		eng.SetCell(msg.NodeId, msg.PatIdx, msg.StepIdx, msg.RowIdx, msg.Value)
	case QueuePattern:
		eng.QueuePattern(msg.NodeId, msg.PatIdx, msg.PatData)
	case NoteOn:
		eng.NoteOn(msg.NodeId, msg.NoteNo, msg.Velocity)
	default:
		panic("noisegraph/control: unknown message kind is a protocol violation")
	}
	return nil
}
