package node

import (
	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/dsp"
)

// Distort applies dsp.Distort per sample, per SPEC_FULL.md section 4.C.
type Distort struct {
	state *core.NodeState
}

func NewDistort(state *core.NodeState) *Distort { return &Distort{state: state} }

func (n *Distort) Kind() core.NodeKind       { return core.KindDistort }
func (n *Distort) RawState() *core.NodeState { return n.state }
func (n *Distort) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindDistort)
	n.state = ns
}

func (n *Distort) Update(input, amount float64) float64 {
	return dsp.Distort(input, amount)
}

// Fold applies dsp.Fold per sample.
type Fold struct {
	state *core.NodeState
}

func NewFold(state *core.NodeState) *Fold { return &Fold{state: state} }

func (n *Fold) Kind() core.NodeKind       { return core.KindFold }
func (n *Fold) RawState() *core.NodeState { return n.state }
func (n *Fold) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindFold)
	n.state = ns
}

func (n *Fold) Update(input, rate float64) float64 {
	return dsp.Fold(input, rate)
}

// Filter wraps dsp.TwoPoleFilter.
type Filter struct {
	state  *core.NodeState
	filter *dsp.TwoPoleFilter
}

func NewFilter(state *core.NodeState) *Filter {
	return &Filter{state: state, filter: dsp.NewTwoPoleFilter()}
}

func (n *Filter) Kind() core.NodeKind       { return core.KindFilter }
func (n *Filter) RawState() *core.NodeState { return n.state }
func (n *Filter) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindFilter)
	n.state = ns
}

func (n *Filter) Update(input, cutoff, reso float64) float64 {
	return n.filter.Update(input, cutoff, reso)
}

// Slide is a portamento/glide node: a one-pole low-pass toward input at
// a rate-controlled speed, per SPEC_FULL.md section 4.C.
type Slide struct {
	state *core.NodeState
	s     float64
}

func NewSlide(state *core.NodeState) *Slide { return &Slide{state: state} }

func (n *Slide) Kind() core.NodeKind       { return core.KindSlide }
func (n *Slide) RawState() *core.NodeState { return n.state }
func (n *Slide) SetState(ns *core.NodeState) {
	assertKind(ns.Type, core.KindSlide)
	n.state = ns
}

func (n *Slide) Update(input, rate float64) float64 {
	denom := rate * 1000
	if denom < 1 {
		denom = 1
	}
	n.s += (1 / denom) * (input - n.s)
	return n.s
}
