package sequencer

import (
	"testing"

	"github.com/lixenwraith/noisegraph/core"
)

func twoStepPattern() core.Pattern {
	return core.Pattern{
		{1, 0},
		{0, 1},
	}
}

// TestStepsAreEvenlySpacedByRisingEdges drives many clock toggles and
// checks that consecutive SET_CUR_STEP emissions land on rising edges
// spaced identically apart, and that the step index cycles 0,1,0,1,...
// over the two-step pattern, per spec.md's testable property 6.
func TestStepsAreEvenlySpacedByRisingEdges(t *testing.T) {
	b := NewBase([]core.Pattern{twoStepPattern()}, 0)

	var steps []int
	var edgeAtStep []int
	b.SetCurStep = func(stepIdx int) { steps = append(steps, stepIdx) }

	clockHigh := false
	time := 0.0
	risingEdges := 0
	for risingEdges < 40 {
		prev := clockHigh
		clockHigh = !clockHigh
		v := -1.0
		if clockHigh {
			v = 1
		}
		before := len(steps)
		b.Update(v, time)
		time += 1.0 / 44100
		if clockHigh && !prev {
			risingEdges++
		}
		if len(steps) > before {
			edgeAtStep = append(edgeAtStep, risingEdges)
		}
	}

	if len(steps) < 4 {
		t.Fatalf("expected at least 4 steps fired in 40 rising edges, got %v", steps)
	}
	for i, s := range steps {
		if s != i%2 {
			t.Fatalf("step %d: expected cycling index %d, got %d (full sequence %v)", i, i%2, s, steps)
		}
	}

	gap := edgeAtStep[1] - edgeAtStep[0]
	for i := 2; i < len(edgeAtStep); i++ {
		if got := edgeAtStep[i] - edgeAtStep[i-1]; got != gap {
			t.Fatalf("expected uniform %d-edge spacing between steps, got %d at step %d (edges %v)", gap, got, i, edgeAtStep)
		}
	}
}

func TestQueuedPatternAppliesOnlyAtPatternBoundary(t *testing.T) {
	b := NewBase([]core.Pattern{twoStepPattern(), nil}, 0)

	var patternChanges []int
	var steps []int
	b.SetCurStep = func(stepIdx int) { steps = append(steps, stepIdx) }
	b.SetPattern = func(patIdx int) { patternChanges = append(patternChanges, patIdx) }

	// Fire step 0.
	b.Update(1, 0)
	b.ClockCnt = 0 // force next rising edge to fire immediately for test brevity
	if len(patternChanges) != 0 {
		t.Fatalf("no pattern change expected before queuing")
	}

	b.QueuePattern(1, core.Pattern{{0, 1}})
	if len(patternChanges) != 0 {
		t.Fatalf("queuing must not itself emit SET_PATTERN")
	}

	// Fire step 1 (last step of pattern 0): this must trigger the queued
	// swap to pattern 1.
	b.Update(-1, 1.0/44100)
	b.Update(1, 2.0/44100)

	if len(patternChanges) != 1 || patternChanges[0] != 1 {
		t.Fatalf("expected SET_PATTERN(1) emitted once at pattern boundary, got %v", patternChanges)
	}
	if b.PatIdx != 1 {
		t.Fatalf("expected PatIdx switched to 1, got %d", b.PatIdx)
	}

	// Next step fired must be step 0 of the new pattern.
	b.ClockCnt = 0
	b.Update(-1, 3.0/44100)
	b.Update(1, 4.0/44100)
	if steps[len(steps)-1] != 0 {
		t.Fatalf("expected step 0 of new pattern after swap, got %d", steps[len(steps)-1])
	}
}

func TestGateMachineOffPretrigOn(t *testing.T) {
	var g Gate
	if v := g.Advance(); v != 0 {
		t.Fatalf("expected gate 0 at rest, got %v", v)
	}

	g.Trig(0)
	if v := g.Advance(); v != 0 {
		t.Fatalf("expected pretrig sample to read 0, got %v", v)
	}
	if v := g.Advance(); v != 1 {
		t.Fatalf("expected on sample to read 1, got %v", v)
	}

	g.ReleaseIfExpired(10, 0.001)
	if v := g.Advance(); v != 0 {
		t.Fatalf("expected gate released after timeout, got %v", v)
	}
}
