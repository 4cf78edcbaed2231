package node

import (
	"testing"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/feedback"
)

// feedbackCollector snapshots each sent buffer's contents immediately,
// since Scope hands off a buffer it will later overwrite in place.
type feedbackCollector struct {
	captures [][]float64
}

func (f *feedbackCollector) Send(msg feedback.Message) bool {
	snap := make([]float64, len(msg.Samples))
	copy(snap, msg.Samples)
	f.captures = append(f.captures, snap)
	return true
}

func stateWithMinMax() *core.NodeState {
	s := core.NewNodeState(core.KindSine)
	s.Params["minVal"] = -1
	s.Params["maxVal"] = 1
	return s
}

func TestOscillatorsStayInRange(t *testing.T) {
	freqs := []float64{0, 1, 440, 9999}
	for _, freq := range freqs {
		sine := NewSine(stateWithMinMax())
		saw := NewSaw(stateWithMinMax())
		tri := NewTri(stateWithMinMax())
		pulse := NewPulse(stateWithMinMax())

		for s := 0; s < core.SampleRate; s++ {
			for _, v := range []float64{
				sine.Update(freq, 0),
				saw.Update(freq),
				tri.Update(freq),
				pulse.Update(freq, 0.5),
			} {
				if v < -1.0001 || v > 1.0001 {
					t.Fatalf("freq %v: oscillator value out of range: %v", freq, v)
				}
			}
		}
	}
}

func TestClockEdgeRate(t *testing.T) {
	const bpm = 120.0
	st := core.NewNodeState(core.KindClock)
	st.Params["bpm"] = bpm
	c := NewClock(st)

	var prev float64
	edges := 0
	for s := 0; s < core.SampleRate; s++ {
		v := c.Update()
		if v > 0 && prev <= 0 {
			edges++
		}
		prev = v
	}

	want := bpm * core.CLOCK_PPQ / 60
	if diff := float64(edges) - want; diff < -1 || diff > 1 {
		t.Fatalf("expected ~%v rising edges per second at %v BPM, got %d", want, bpm, edges)
	}
}

func TestClockDivDividesEdges(t *testing.T) {
	const factor = 3
	clockSt := core.NewNodeState(core.KindClock)
	clockSt.Params["bpm"] = 120
	clk := NewClock(clockSt)

	divSt := core.NewNodeState(core.KindClockDiv)
	divSt.Params["factor"] = factor
	div := NewClockDiv(divSt)

	var prevIn, prevOut float64
	inEdges, outEdges := 0, 0
	for s := 0; s < core.SampleRate; s++ {
		in := clk.Update()
		out := div.Update(in)

		if (in > 0) != (prevIn > 0) {
			inEdges++
		}
		if (out > 0) != (prevOut > 0) {
			outEdges++
		}
		prevIn, prevOut = in, out
	}

	want := inEdges / factor
	if outEdges < want-1 || outEdges > want+1 {
		t.Fatalf("expected ~%d output edges for %d input edges at factor %d, got %d", want, inEdges, factor, outEdges)
	}
}

// TestScopeAlternatesBuffersAcrossFills checks the scope hands off a
// distinct, fully-captured buffer on every fill and never reuses the
// buffer still held by the previous send before the next one completes.
func TestScopeAlternatesBuffersAcrossFills(t *testing.T) {
	st := core.NewNodeState(core.KindScope)
	st.SendSize = 4
	st.SendRate = core.SampleRate / 4 // sampleInterv 1: every Update is captured
	sender := feedbackCollector{}
	scope, err := NewScope(0, st, &sender)
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}

	for i := 0; i < 8; i++ {
		scope.Update(float64(i))
	}

	if len(sender.captures) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(sender.captures))
	}
	if sender.captures[0][0] == sender.captures[1][0] {
		t.Fatalf("expected distinct buffers per capture, got identical first elements")
	}
	want0 := []float64{0, 1, 2, 3}
	want1 := []float64{4, 5, 6, 7}
	for i := range want0 {
		if sender.captures[0][i] != want0[i] || sender.captures[1][i] != want1[i] {
			t.Fatalf("capture contents mismatch: got %v, %v", sender.captures[0], sender.captures[1])
		}
	}
}

func TestMidiInRetrigger(t *testing.T) {
	m := NewMidiIn(core.NewNodeState(core.KindMidiIn))
	m.NoteOn(60, 100)

	var gates []float64
	for i := 0; i < 5; i++ {
		_, g := m.Update()
		gates = append(gates, g)
	}
	m.NoteOn(60, 100) // retrigger while held
	for i := 0; i < 2; i++ {
		_, g := m.Update()
		gates = append(gates, g)
	}

	want := []float64{1, 1, 1, 1, 1, 0, 1}
	if len(gates) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(gates))
	}
	for i := range want {
		if gates[i] != want[i] {
			t.Fatalf("sample %d: expected gate %v, got %v (full sequence %v)", i, want[i], gates[i], gates)
		}
	}
}
