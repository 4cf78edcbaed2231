package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/dsp"
)

// ADSR is the envelope node kind, a thin wrapper over dsp.ADSR, per
// SPEC_FULL.md section 4.C. Grounded on audio/voice.go's
// TonalVoice.processEnvelope.
type ADSR struct {
	state *core.NodeState
	env   *dsp.ADSR
}

func NewADSR(state *core.NodeState) *ADSR {
	return &ADSR{state: state, env: dsp.NewADSR()}
}

func (n *ADSR) Kind() core.NodeKind       { return core.KindADSR }
func (n *ADSR) RawState() *core.NodeState { return n.state }
func (n *ADSR) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindADSR)
	n.state = ns
}

// Update advances the envelope and returns its value, per the ADSR row
// of SPEC_FULL.md section 4.C's contract table.
func (n *ADSR) Update(time, gate, attack, decay, sustain, release float64) float64 {
	return n.env.Update(time, gate, attack, decay, sustain, release)
}
