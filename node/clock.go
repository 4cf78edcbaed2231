package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
)

// Clock is a free-running square-wave master clock at BPM*CLOCK_PPQ/60
// Hz with a fixed 50% duty cycle, per SPEC_FULL.md section 4.C. It
// starts high: phase 0 means the first sample's cyclePos is 0, below the
// 0.5 duty threshold, per spec.md's resolved clock-parity Open Question.
type Clock struct {
	state *core.NodeState
	phase float64
}

func NewClock(state *core.NodeState) *Clock { return &Clock{state: state} }

func (n *Clock) Kind() core.NodeKind       { return core.KindClock }
func (n *Clock) RawState() *core.NodeState { return n.state }
func (n *Clock) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindClock)
	n.state = ns
}

func (n *Clock) Update() float64 {
	freq := n.state.Param("bpm") * core.CLOCK_PPQ / 60

	cyclePos := n.phase
	n.phase = wrap01(n.phase + freq/core.SampleRate)

	if cyclePos < 0.5 {
		return 1
	}
	return -1
}

// ClockDiv divides an incoming clock signal by factor edges (rising and
// falling both counted), toggling its own output each time the count
// reaches factor. It mirrors Clock by starting high.
type ClockDiv struct {
	state  *core.NodeState
	inSgn  bool
	outSgn bool
	cnt    int
}

func NewClockDiv(state *core.NodeState) *ClockDiv {
	return &ClockDiv{state: state, outSgn: true}
}

func (n *ClockDiv) Kind() core.NodeKind       { return core.KindClockDiv }
func (n *ClockDiv) RawState() *core.NodeState { return n.state }
func (n *ClockDiv) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindClockDiv)
	n.state = ns
}

func (n *ClockDiv) Update(clock float64) float64 {
	cur := clock > 0
	edge := cur != n.inSgn
	n.inSgn = cur

	if edge {
		factor := int(n.state.Param("factor"))
		if factor < 1 {
			factor = 1
		}
		n.cnt++
		if n.cnt >= factor {
			n.cnt = 0
			n.outSgn = !n.outSgn
		}
	}

	if n.outSgn {
		return 1
	}
	return -1
}

// ClockOut produces no audio; it emits a feedback.ClockPulse on every
// rising edge of its clock input, per SPEC_FULL.md section 4.C.
type ClockOut struct {
	state *core.NodeState
	id    core.NodeId
	send  feedback.Sender
	inSgn bool
}

func NewClockOut(id core.NodeId, state *core.NodeState, send feedback.Sender) *ClockOut {
	return &ClockOut{id: id, state: state, send: send}
}

func (n *ClockOut) Kind() core.NodeKind       { return core.KindClockOut }
func (n *ClockOut) RawState() *core.NodeState { return n.state }
func (n *ClockOut) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindClockOut)
	n.state = ns
}

func (n *ClockOut) Update(time, clock float64) {
	cur := clock > 0
	rising := cur && !n.inSgn
	n.inSgn = cur

	if rising && n.send != nil {
		n.send.Send(feedback.Message{Kind: feedback.ClockPulse, NodeId: n.id, Time: time})
	}
}
