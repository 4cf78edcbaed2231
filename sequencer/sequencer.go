// Package sequencer implements the shared clock-edge step state machine
// and the off/pretrig/on gate machine reused by the MonoSeq, GateSeq and
// MidiIn node kinds (component D of SPEC_FULL.md). It is a leaf package
// with no dependency on node, so node can embed sequencer.Base without
// an import cycle.
//
// Grounded on the teacher's audio/sequencer.go (Sequencer.Generate's
// step-boundary loop and checkPendingTransitions' quantized pattern
// swap) and audio/track.go's per-voice trigger/allocate dance,
// generalized from "trigger a drum/tonal voice" to "emit a gate value
// the compiled program reads."
package sequencer

import "github.com/lixenwraith/noisegraph/core"

// Base is the shared clock-edge step progression machine for sequencer
// node kinds, per SPEC_FULL.md section 4.D.
type Base struct {
	Patterns []core.Pattern
	PatIdx   int
	NextStep int
	NextPat  *int
	ClockCnt int

	clockSgn bool

	// SetCurStep and SetPattern are the node's feedback emission hooks;
	// TrigRow fires for each nonzero cell in the step just reached. All
	// three may be left nil (e.g. during tests that only check step
	// accounting).
	SetCurStep func(stepIdx int)
	SetPattern func(patIdx int)
	TrigRow    func(rowIdx int, time float64)
}

// NewBase returns a Base over the given pattern list, starting at
// curPattern with clockCnt and nextStep at their initial values (0).
func NewBase(patterns []core.Pattern, curPattern int) *Base {
	return &Base{
		Patterns: patterns,
		PatIdx:   curPattern,
	}
}

// Update feeds one sample of the clock input and the current playback
// time. On a rising edge it fires a step when ClockCnt has counted down
// to zero, then decrements ClockCnt, per SPEC_FULL.md section 4.D.
func (b *Base) Update(clock, time float64) {
	rising := clock > 0 && !b.clockSgn
	b.clockSgn = clock > 0
	if !rising {
		return
	}

	if b.ClockCnt == 0 {
		b.fireStep(time)
	}
	b.ClockCnt--
}

func (b *Base) fireStep(time float64) {
	grid := b.Patterns[b.PatIdx]
	n := grid.NumSteps()
	stepIdx := b.NextStep % n
	b.ClockCnt = core.CLOCK_PPS
	b.NextStep++

	if b.SetCurStep != nil {
		b.SetCurStep(stepIdx)
	}
	for rowIdx, cell := range grid[stepIdx] {
		if cell != 0 && b.TrigRow != nil {
			b.TrigRow(rowIdx, time)
		}
	}

	if stepIdx == n-1 {
		b.NextStep = 0
		if b.NextPat != nil {
			next := *b.NextPat
			if b.SetPattern != nil {
				b.SetPattern(next)
			}
			b.PatIdx = next
			b.NextPat = nil
		}
	}
}

// SetCell mutates one cell of the named pattern in place.
func (b *Base) SetCell(patIdx, stepIdx, rowIdx int, value core.Cell) {
	b.Patterns[patIdx][stepIdx][rowIdx] = value
}

// QueuePattern replaces patterns[patIdx] with patData and arms it to
// take effect at the next pattern wrap (the current pattern always
// finishes first — see DESIGN.md's Open Question resolution).
func (b *Base) QueuePattern(patIdx int, patData core.Pattern) {
	b.Patterns[patIdx] = patData
	next := patIdx
	b.NextPat = &next
}

// Refresh replaces the pattern list and current index without touching
// ClockCnt, NextStep or the clock-edge sign: a graph recompilation is
// not a rewind, per SPEC_FULL.md section 4.D.
func (b *Base) Refresh(patterns []core.Pattern, curPattern int) {
	b.Patterns = patterns
	b.PatIdx = curPattern
}

// GateState is one state of the off/pretrig/on gate machine shared by
// MonoSeq, GateSeq and MidiIn.
type GateState int

const (
	GateOff GateState = iota
	GatePretrig
	GateOn
)

// Gate is one row's (or one MIDI voice's) gate state machine, per
// SPEC_FULL.md section 4.C/4.D. Pretrig is a synthetic one-sample
// zero-gate state that forces a downstream ADSR to see a fresh rising
// edge even when a note is already sustaining.
type Gate struct {
	State    GateState
	TrigTime float64
}

// Trig arms the gate: it emits one pretrig sample before settling on.
func (g *Gate) Trig(time float64) {
	g.State = GatePretrig
	g.TrigTime = time
}

// Advance returns this sample's gate level (0 or 1) and, if the gate is
// in pretrig, advances it to on for the next sample.
func (g *Gate) Advance() float64 {
	switch g.State {
	case GateOff:
		return 0
	case GatePretrig:
		g.State = GateOn
		return 0
	case GateOn:
		return 1
	default:
		panic("noisegraph/sequencer: unreachable gate state")
	}
}

// ReleaseIfExpired turns the gate off once it has been on for longer
// than gateTime, per MonoSeq/GateSeq's on->off timeout rule.
func (g *Gate) ReleaseIfExpired(time, gateTime float64) {
	if g.State == GateOn && time-g.TrigTime > gateTime {
		g.State = GateOff
	}
}
