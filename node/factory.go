package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
)

// New constructs the concrete node for state.Type, per spec.md section
// 9's "tagged sum over node kinds" design note: a single switch over the
// kind tag, no virtual inheritance. Kinds with no construction-time
// validation (everything but Scope) cannot fail.
func New(id core.NodeId, state *core.NodeState, send feedback.Sender) (Node, error) {
	switch state.Type {
	case core.KindSine:
		return NewSine(state), nil
	case core.KindSaw:
		return NewSaw(state), nil
	case core.KindTri:
		return NewTri(state), nil
	case core.KindPulse:
		return NewPulse(state), nil
	case core.KindNoise:
		return NewNoise(state), nil
	case core.KindADSR:
		return NewADSR(state), nil
	case core.KindClock:
		return NewClock(state), nil
	case core.KindClockDiv:
		return NewClockDiv(state), nil
	case core.KindClockOut:
		return NewClockOut(id, state, send), nil
	case core.KindDistort:
		return NewDistort(state), nil
	case core.KindFold:
		return NewFold(state), nil
	case core.KindFilter:
		return NewFilter(state), nil
	case core.KindSlide:
		return NewSlide(state), nil
	case core.KindHold:
		return NewHold(state), nil
	case core.KindDelay:
		return NewDelay(state), nil
	case core.KindScope:
		return NewScope(id, state, send)
	case core.KindMidiIn:
		return NewMidiIn(state), nil
	case core.KindMonoSeq:
		return NewMonoSeq(id, state, send), nil
	case core.KindGateSeq:
		return NewGateSeq(id, state, send), nil
	default:
		return NewUnknown(state), nil
	}
}
