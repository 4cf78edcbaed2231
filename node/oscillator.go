package node

import (
	"math"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/dsp"
)

// Sine is a phase-accumulator sine oscillator with hard sync, per
// SPEC_FULL.md section 4.C. It reads cyclePos from the phase as it
// stands before this call's increment is applied ("pre-increment" read)
// so that a sync reset is audible on the very same sample — see
// DESIGN.md for how this resolves section 4.C's general rule against the
// Clock kind's worked example.
type Sine struct {
	state   *core.NodeState
	phase   float64
	syncSgn bool
}

// NewSine constructs a Sine node at rest (phase 0, sync low).
func NewSine(state *core.NodeState) *Sine {
	return &Sine{state: state}
}

func (n *Sine) Kind() core.NodeKind        { return core.KindSine }
func (n *Sine) RawState() *core.NodeState  { return n.state }
func (n *Sine) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindSine)
	n.state = ns
}

// Update advances the oscillator one sample and returns its amplitude
// scaled into [minVal, maxVal].
func (n *Sine) Update(freq, sync float64) float64 {
	rising := sync > 0 && !n.syncSgn
	n.syncSgn = sync > 0
	if rising {
		n.phase = 0
	}

	cyclePos := n.phase
	n.phase = wrap01(n.phase + freq/core.SampleRate)

	raw := math.Sin(2 * math.Pi * cyclePos)
	minV, maxV := n.state.Param("minVal"), n.state.Param("maxVal")
	return minV + (raw+1)/2*(maxV-minV)
}

// Saw is a post-increment sawtooth oscillator.
type Saw struct {
	state *core.NodeState
	phase float64
}

func NewSaw(state *core.NodeState) *Saw { return &Saw{state: state} }

func (n *Saw) Kind() core.NodeKind       { return core.KindSaw }
func (n *Saw) RawState() *core.NodeState { return n.state }
func (n *Saw) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindSaw)
	n.state = ns
}

func (n *Saw) Update(freq float64) float64 {
	n.phase = wrap01(n.phase + freq/core.SampleRate)
	cyclePos := n.phase

	raw := 2*cyclePos - 1
	minV, maxV := n.state.Param("minVal"), n.state.Param("maxVal")
	return minV + (raw+1)/2*(maxV-minV)
}

// Tri is a post-increment triangle oscillator.
type Tri struct {
	state *core.NodeState
	phase float64
}

func NewTri(state *core.NodeState) *Tri { return &Tri{state: state} }

func (n *Tri) Kind() core.NodeKind       { return core.KindTri }
func (n *Tri) RawState() *core.NodeState { return n.state }
func (n *Tri) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindTri)
	n.state = ns
}

func (n *Tri) Update(freq float64) float64 {
	n.phase = wrap01(n.phase + freq/core.SampleRate)
	cyclePos := n.phase

	raw := 1 - 4*math.Abs(cyclePos-0.5)
	minV, maxV := n.state.Param("minVal"), n.state.Param("maxVal")
	return minV + (raw+1)/2*(maxV-minV)
}

// Pulse is a post-increment rectangle oscillator with a per-sample duty
// cycle input.
type Pulse struct {
	state *core.NodeState
	phase float64
}

func NewPulse(state *core.NodeState) *Pulse { return &Pulse{state: state} }

func (n *Pulse) Kind() core.NodeKind       { return core.KindPulse }
func (n *Pulse) RawState() *core.NodeState { return n.state }
func (n *Pulse) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindPulse)
	n.state = ns
}

func (n *Pulse) Update(freq, duty float64) float64 {
	n.phase = wrap01(n.phase + freq/core.SampleRate)
	cyclePos := n.phase

	var raw float64 = -1
	if cyclePos < duty {
		raw = 1
	}
	minV, maxV := n.state.Param("minVal"), n.state.Param("maxVal")
	return minV + (raw+1)/2*(maxV-minV)
}

// Noise wraps dsp.Noise, reading its range from minVal/maxVal params and
// its shaping mode from the "mode" param slot recorded as a string
// elsewhere is not possible on a float64 map, so mode selection happens
// via a nonzero "metallic" param flag, grounded on SPEC_FULL.md's
// supplement to section 4.C.
type Noise struct {
	state *core.NodeState
	gen   *dsp.Noise
}

func NewNoise(state *core.NodeState) *Noise {
	return &Noise{state: state, gen: dsp.NewNoise()}
}

func (n *Noise) Kind() core.NodeKind       { return core.KindNoise }
func (n *Noise) RawState() *core.NodeState { return n.state }
func (n *Noise) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindNoise)
	n.state = ns
}

func (n *Noise) Update() float64 {
	mode := "white"
	if n.state.Param("metallic") > 0 {
		mode = "metallic"
	}
	minV, maxV := n.state.Param("minVal"), n.state.Param("maxVal")
	return n.gen.Sample(minV, maxV, mode)
}
