package node

import (
	"math"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
)

// Scope produces no audio; it periodically captures its input into a
// buffer and emits a feedback.SendSamples message once the buffer fills,
// per SPEC_FULL.md section 4.C. Construction fails (core.
// ErrBadSampleInterval) when sendSize*sendRate does not divide the
// sample rate into a whole number of samples, per the invariant in
// section 3.
type Scope struct {
	state        *core.NodeState
	id           core.NodeId
	send         feedback.Sender
	sampleInterv int
	fillCounter  int
	fillLen      int
	buffers      [2][]float64
	active       int
}

// NewScope validates the scope's timing configuration and returns a
// ready capture node. Both capture buffers are allocated here, at
// construction; Update never allocates, only swaps between them.
func NewScope(id core.NodeId, state *core.NodeState, send feedback.Sender) (*Scope, error) {
	if state.SendSize <= 0 || state.SendRate <= 0 {
		return nil, core.ErrBadSampleInterval
	}
	interv := float64(core.SampleRate) / (float64(state.SendSize) * state.SendRate)
	if interv < 1 || interv != math.Trunc(interv) {
		return nil, core.ErrBadSampleInterval
	}
	return &Scope{
		id:           id,
		state:        state,
		send:         send,
		sampleInterv: int(interv),
		buffers:      [2][]float64{make([]float64, state.SendSize), make([]float64, state.SendSize)},
	}, nil
}

func (n *Scope) Kind() core.NodeKind       { return core.KindScope }
func (n *Scope) RawState() *core.NodeState { return n.state }
func (n *Scope) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindScope)
	n.state = ns
}

// Update captures input into the active buffer every sampleInterv
// samples. Once the buffer fills it is handed to send, and the other
// preallocated buffer becomes active for the next capture — no
// allocation on this path, per SPEC_FULL.md section 5's hot-path rule.
func (n *Scope) Update(input float64) {
	n.fillCounter++
	if n.fillCounter < n.sampleInterv {
		return
	}
	n.fillCounter = 0

	n.buffers[n.active][n.fillLen] = input
	n.fillLen++
	if n.fillLen < n.state.SendSize {
		return
	}

	if n.send != nil {
		n.send.Send(feedback.Message{Kind: feedback.SendSamples, NodeId: n.id, Samples: n.buffers[n.active]})
	}
	n.active = 1 - n.active
	n.fillLen = 0
}
