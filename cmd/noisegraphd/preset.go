package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/noisegraph/core"
	"github.com/lixenwraith/noisegraph/music"
)

// Fixed node ids for the one hand-assembled graph this host plays, per
// SPEC_FULL.md section 9: oscillator -> filter -> MonoSeq-gated ADSR ->
// output, with a Scope tapping the filtered signal for the live view and
// a ClockOut tapping the master clock for the blink indicator.
const (
	nodeClock core.NodeId = iota
	nodeMonoSeq
	nodeSine
	nodeFilter
	nodeADSR
	nodeScope
	nodeClockOut
	nodeMidiIn
)

// preset is the on-disk shape of a .yaml preset file: enough to
// materialize a scale, lay out one pattern of scale-degree triggers, and
// set the filter/envelope parameters, standing in for the out-of-scope
// graph compiler's output per SPEC_FULL.md section 9.
type preset struct {
	BPM        float64 `yaml:"bpm"`
	ScaleRoot  int     `yaml:"scaleRoot"`
	ScaleName  string  `yaml:"scaleName"`
	NumOctaves int     `yaml:"numOctaves"`
	GateTime   float64 `yaml:"gateTime"`

	// Pattern holds one scale-degree index per step; -1 is a rest. The
	// degree indexes into the scale materialized from ScaleRoot/
	// ScaleName/NumOctaves.
	Pattern []int `yaml:"pattern"`

	Filter struct {
		Cutoff float64 `yaml:"cutoff"`
		Reso   float64 `yaml:"reso"`
	} `yaml:"filter"`

	Envelope struct {
		Attack  float64 `yaml:"attack"`
		Decay   float64 `yaml:"decay"`
		Sustain float64 `yaml:"sustain"`
		Release float64 `yaml:"release"`
	} `yaml:"envelope"`

	// ScopeSize*ScopeRate must divide 44100 evenly, per node.NewScope's
	// sampleInterv invariant.
	ScopeSize int     `yaml:"scopeSize"`
	ScopeRate float64 `yaml:"scopeRate"`
}

// defaultPreset is played when --preset names no file: a two-octave
// minor pentatonic run, grounded on the GLOSSARY's scale interval table.
func defaultPreset() preset {
	p := preset{
		BPM:        120,
		ScaleRoot:  57, // A3
		ScaleName:  "minorPentatonic",
		NumOctaves: 2,
		GateTime:   0.18,
		Pattern:    []int{0, -1, 2, 3, -1, 5, 3, -1, 7, 5, 3, -1, 2, -1, 0, -1},
		ScopeSize:  150,
		ScopeRate:  3,
	}
	p.Filter.Cutoff = 0.55
	p.Filter.Reso = 0.15
	p.Envelope.Attack = 0.01
	p.Envelope.Decay = 0.12
	p.Envelope.Sustain = 0.55
	p.Envelope.Release = 0.25
	return p
}

// loadPreset reads and decodes a yaml preset file, per SPEC_FULL.md
// section 9's preset-loading concern (grounded on doismellburning-samoyed
// and musclesoft-nin64k's direct use of yaml.v3 for config).
func loadPreset(path string) (preset, error) {
	p := defaultPreset()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return preset{}, fmt.Errorf("noisegraphd: reading preset %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return preset{}, fmt.Errorf("noisegraphd: parsing preset %q: %w", path, err)
	}
	return p, nil
}

// buildPatternGrid lays the preset's per-step scale-degree list out as a
// core.Pattern (steps x scale-degree rows), the shape MonoSeq.trigRow
// expects: a nonzero cell at (step, degree) triggers that scale note.
func buildPatternGrid(steps []int, scaleLen int) core.Pattern {
	if len(steps) == 0 {
		steps = []int{-1}
	}
	grid := make(core.Pattern, len(steps))
	for s, degree := range steps {
		row := make([]core.Cell, scaleLen)
		if degree >= 0 && degree < scaleLen {
			row[degree] = 1
		}
		grid[s] = row
	}
	return grid
}

// variantPattern builds the pattern queued when the live view's digit key
// i is pressed: the preset's base step list rotated left by i steps, so
// each digit plays a distinct permutation of the same run rather than
// something unrelated to what's already playing.
func variantPattern(p preset, digit int) core.Pattern {
	scale := music.MaterializeScale(p.ScaleRoot, p.ScaleName, p.NumOctaves)
	steps := p.Pattern
	if len(steps) == 0 {
		return buildPatternGrid(steps, len(scale))
	}
	shift := digit % len(steps)
	rotated := make([]int, len(steps))
	for i := range steps {
		rotated[i] = steps[(i+shift)%len(steps)]
	}
	return buildPatternGrid(rotated, len(scale))
}

// buildNodeStates turns a decoded preset into the fixed eight-node graph
// the host plays, keyed by the package's fixed NodeId constants.
func buildNodeStates(p preset) map[core.NodeId]*core.NodeState {
	scale := music.MaterializeScale(p.ScaleRoot, p.ScaleName, p.NumOctaves)
	grid := buildPatternGrid(p.Pattern, len(scale))

	clockState := core.NewNodeState(core.KindClock)
	clockState.Params["bpm"] = p.BPM

	monoState := core.NewNodeState(core.KindMonoSeq)
	monoState.Params["gateTime"] = p.GateTime
	monoState.ScaleRoot = p.ScaleRoot
	monoState.ScaleName = p.ScaleName
	monoState.NumOctaves = p.NumOctaves
	// Pre-size to 10 slots so the live view's digit keys 0-9 can each
	// QueuePattern into their own slot: sequencer.Base.QueuePattern does a
	// direct Patterns[patIdx] = data assignment, not an append, and would
	// panic on an out-of-range index.
	monoState.Patterns = make([]core.Pattern, 10)
	monoState.Patterns[0] = grid
	monoState.CurPattern = 0

	sineState := core.NewNodeState(core.KindSine)
	sineState.Params["minVal"] = -1
	sineState.Params["maxVal"] = 1

	filterState := core.NewNodeState(core.KindFilter)
	filterState.Params["cutoff"] = p.Filter.Cutoff
	filterState.Params["reso"] = p.Filter.Reso

	adsrState := core.NewNodeState(core.KindADSR)
	adsrState.Params["attack"] = p.Envelope.Attack
	adsrState.Params["decay"] = p.Envelope.Decay
	adsrState.Params["sustain"] = p.Envelope.Sustain
	adsrState.Params["release"] = p.Envelope.Release

	scopeState := core.NewNodeState(core.KindScope)
	scopeState.SendSize = p.ScopeSize
	scopeState.SendRate = p.ScopeRate

	clockOutState := core.NewNodeState(core.KindClockOut)
	midiState := core.NewNodeState(core.KindMidiIn)

	return map[core.NodeId]*core.NodeState{
		nodeClock:    clockState,
		nodeMonoSeq:  monoState,
		nodeSine:     sineState,
		nodeFilter:   filterState,
		nodeADSR:     adsrState,
		nodeScope:    scopeState,
		nodeClockOut: clockOutState,
		nodeMidiIn:   midiState,
	}
}
