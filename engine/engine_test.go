package engine

import (
	"math"
	"testing"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
	"github.com/lixenwraith/noisegraph/node"
)

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(core.SampleRate, feedback.NewChannelSender(8))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsWrongSampleRate(t *testing.T) {
	if _, err := NewEngine(48000, feedback.NewChannelSender(1)); err != core.ErrBadSampleRate {
		t.Fatalf("expected ErrBadSampleRate, got %v", err)
	}
}

func TestGenSampleSilentWithNoProgram(t *testing.T) {
	e := mustEngine(t)
	l, r := e.GenSample()
	if l != 0 || r != 0 {
		t.Fatalf("expected silence with no program loaded, got (%v, %v)", l, r)
	}
}

// TestSingleOscillatorStaysInRange wires one Sine node straight to the
// output and runs one second of audio, checking the stereo output never
// leaves [-1, 1] and that playback position advances one sample period
// at a time.
func TestSingleOscillatorStaysInRange(t *testing.T) {
	e := mustEngine(t)

	const sineId core.NodeId = 0
	sineState := core.NewNodeState(core.KindSine)
	sineState.Params["minVal"] = -1
	sineState.Params["maxVal"] = 1
	sineState.Params["freq"] = 440

	prog := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) {
		sine := nodes.Get(sineId).(*node.Sine)
		v := sine.Update(sineState.Param("freq"), 0)
		return v, v
	})

	if err := e.NewUnit(CompiledUnit{
		Nodes:   map[core.NodeId]*core.NodeState{sineId: sineState},
		Program: prog,
	}); err != nil {
		t.Fatalf("NewUnit: %v", err)
	}

	prevPos := e.PlayPos()
	for i := 0; i < core.SampleRate; i++ {
		l, r := e.GenSample()
		if l != r {
			t.Fatalf("sample %d: expected mono-duplicated stereo pair, got (%v, %v)", i, l, r)
		}
		if l < -1.0001 || l > 1.0001 {
			t.Fatalf("sample %d: output out of range: %v", i, l)
		}
		pos := e.PlayPos()
		if diff := pos - prevPos; math.Abs(diff-1.0/core.SampleRate) > 1e-12 {
			t.Fatalf("sample %d: expected playPos to advance by one sample period, got delta %v", i, diff)
		}
		prevPos = pos
	}
}

// TestNodePersistsAcrossUnitSwap verifies spec.md's testable property 8:
// a Delay node's internal buffer survives a unit swap that omits it and
// later reinstates it, rather than being reset.
func TestNodePersistsAcrossUnitSwap(t *testing.T) {
	e := mustEngine(t)

	const delayId core.NodeId = 0
	const passthroughId core.NodeId = 1

	delayState := core.NewNodeState(core.KindDelay)
	passthroughState := core.NewNodeState(core.KindSine)

	delayTime := 10.0 / core.SampleRate

	writeProg := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) {
		d := nodes.Get(delayId).(*node.Delay)
		var sample float64
		if playTime <= 1.0/core.SampleRate+1e-9 {
			sample = 1
		}
		d.Write(sample, delayTime)
		out := d.Read()
		return out, out
	})

	if err := e.NewUnit(CompiledUnit{
		Nodes: map[core.NodeId]*core.NodeState{
			delayId: delayState,
		},
		Program: writeProg,
	}); err != nil {
		t.Fatalf("NewUnit (delay): %v", err)
	}

	for i := 0; i < 5; i++ {
		e.GenSample()
	}

	// Swap to a unit that doesn't mention the delay node at all.
	noopProg := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) {
		return 0, 0
	})
	if err := e.NewUnit(CompiledUnit{
		Nodes:   map[core.NodeId]*core.NodeState{passthroughId: passthroughState},
		Program: noopProg,
	}); err != nil {
		t.Fatalf("NewUnit (noop): %v", err)
	}
	for i := 0; i < 3; i++ {
		e.GenSample()
	}

	// Reinstate the delay-reading program; the delayed impulse should
	// still surface at the expected sample, proving the line's internal
	// write index/buffer were never reset across the swaps.
	readProg := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) {
		d := nodes.Get(delayId).(*node.Delay)
		d.Write(0, delayTime)
		out := d.Read()
		return out, out
	})
	if err := e.NewUnit(CompiledUnit{
		Nodes:   map[core.NodeId]*core.NodeState{delayId: delayState},
		Program: readProg,
	}); err != nil {
		t.Fatalf("NewUnit (delay again): %v", err)
	}

	var out []float64
	for i := 0; i < 10; i++ {
		l, _ := e.GenSample()
		out = append(out, l)
	}

	foundImpulse := false
	for _, v := range out {
		if v > 0.5 {
			foundImpulse = true
		}
	}
	if !foundImpulse {
		t.Fatalf("expected the delayed impulse to surface after reinstating the node, got %v", out)
	}
}

func TestKindChangeOnExistingNodePanics(t *testing.T) {
	e := mustEngine(t)
	const id core.NodeId = 0

	sineState := core.NewNodeState(core.KindSine)
	prog := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) { return 0, 0 })
	if err := e.NewUnit(CompiledUnit{Nodes: map[core.NodeId]*core.NodeState{id: sineState}, Program: prog}); err != nil {
		t.Fatalf("NewUnit: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on node kind change")
		}
	}()
	sawState := core.NewNodeState(core.KindSaw)
	e.NewUnit(CompiledUnit{Nodes: map[core.NodeId]*core.NodeState{id: sawState}, Program: prog})
}

// TestFilterStaysFiniteWithNoiseAndOutOfRangeParams feeds noise through
// a Filter node with a wildly out-of-range cutoff/reso pair and checks
// every output sample stays finite, per spec.md's filter stability
// requirement (clamp rather than blow up).
func TestFilterStaysFiniteWithNoiseAndOutOfRangeParams(t *testing.T) {
	e := mustEngine(t)
	const noiseId core.NodeId = 0
	const filterId core.NodeId = 1

	noiseState := core.NewNodeState(core.KindNoise)
	noiseState.Params["minVal"] = -1
	noiseState.Params["maxVal"] = 1
	filterState := core.NewNodeState(core.KindFilter)

	prog := ClosureProgram(func(playTime float64, nodes *NodeArray) (float64, float64) {
		n := nodes.Get(noiseId).(*node.Noise)
		f := nodes.Get(filterId).(*node.Filter)
		in := n.Update()
		out := f.Update(in, 5.0, -5.0)
		return out, out
	})

	if err := e.NewUnit(CompiledUnit{
		Nodes: map[core.NodeId]*core.NodeState{
			noiseId:  noiseState,
			filterId: filterState,
		},
		Program: prog,
	}); err != nil {
		t.Fatalf("NewUnit: %v", err)
	}

	for i := 0; i < core.SampleRate; i++ {
		l, _ := e.GenSample()
		if math.IsNaN(l) || math.IsInf(l, 0) {
			t.Fatalf("sample %d: filter output not finite: %v", i, l)
		}
	}
}
